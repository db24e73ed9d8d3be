// Package plannerd implements the planning-as-a-service HTTP daemon,
// cmd/plannerd: clients submit a problem, the server runs Graphplan, and
// the client polls for the result. Routing follows the teacher's
// server/api package style (go-chi/chi/v5, one handler method per
// endpoint on a struct holding the server's dependencies); auth follows
// server/token.go's bcrypt-then-JWT bearer flow, adapted from
// username/password to an issued API key since plannerd has no user
// registration surface.
package plannerd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"strings"

	"github.com/dekarrin/rocketplan/internal/factfile"
	"github.com/dekarrin/rocketplan/internal/graphplan"
	"github.com/dekarrin/rocketplan/internal/plannerd/dao"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PathPrefix is the prefix of all routes plannerd serves.
const PathPrefix = "/api/v1"

// API holds the dependencies the HTTP handlers need.
type API struct {
	Store     dao.Store
	JWTSecret []byte
	MaxLevel  int
}

// Router builds the chi router for the plannerd API.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/tokens", a.handleIssueToken)
		r.Group(func(r chi.Router) {
			r.Use(a.requireAuth)
			r.Post("/jobs", a.handleCreateJob)
			r.Get("/jobs/{id}", a.handleGetJob)
		})
	})
	return r
}

type ownerKey struct{}

// requireAuth is chi middleware validating the bearer JWT and attaching the
// authenticated owner's UUID to the request context, mirroring the
// teacher's server/token.go AuthHandler but collapsed into the
// net/http middleware shape chi expects.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok, err := getBearerToken(req)
		if err != nil {
			unauthorized(err.Error()).writeTo(w)
			return
		}

		owner, err := validateJWT(a.JWTSecret, tok)
		if err != nil {
			unauthorized("invalid or expired token").writeTo(w)
			return
		}

		ctx := context.WithValue(req.Context(), ownerKey{}, owner)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func ownerFromContext(ctx context.Context) uuid.UUID {
	owner, _ := ctx.Value(ownerKey{}).(uuid.UUID)
	return owner
}

type tokenRequest struct {
	Owner  uuid.UUID `json:"owner"`
	APIKey string    `json:"api_key"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (a *API) handleIssueToken(w http.ResponseWriter, req *http.Request) {
	var body tokenRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		badRequest("malformed JSON body").writeTo(w)
		return
	}

	if err := VerifyAPIKey(req.Context(), a.Store.APIKeys(), body.Owner, body.APIKey); err != nil {
		if errors.Is(err, ErrBadCredentials) {
			unauthorized(err.Error()).writeTo(w)
			return
		}
		internalError(err.Error()).writeTo(w)
		return
	}

	tok, err := generateJWT(a.JWTSecret, body.Owner)
	if err != nil {
		internalError(err.Error()).writeTo(w)
		return
	}

	ok(tokenResponse{Token: tok}).writeTo(w)
}

type createJobRequest struct {
	ProblemFile string `json:"problem_file"`
}

type jobResponse struct {
	ID       uuid.UUID `json:"id"`
	Status   string    `json:"status"`
	Plan     []string  `json:"plan,omitempty"`
	Rendered string    `json:"rendered,omitempty"`
	Failure  string    `json:"failure,omitempty"`
}

// handleCreateJob parses the submitted problem file text, solves it
// synchronously (spec §5: the driver is deterministic and fast enough for
// realistic domains not to need an async worker pool for this reduced
// service surface), and stores the result.
func (a *API) handleCreateJob(w http.ResponseWriter, req *http.Request) {
	var body createJobRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		badRequest("malformed JSON body").writeTo(w)
		return
	}

	problem, err := factfile.Parse(strings.NewReader(body.ProblemFile))
	if err != nil {
		badRequest(factfile.FormatError(err)).writeTo(w)
		return
	}

	owner := ownerFromContext(req.Context())
	job, err := a.Store.Jobs().Create(req.Context(), dao.Job{
		Owner:   owner,
		Status:  dao.JobRunning,
		Problem: problem,
	})
	if err != nil {
		internalError(err.Error()).writeTo(w)
		return
	}

	domain, plan, solveErr := graphplan.Solve(problem, a.MaxLevel)

	job.Finished = time.Now()
	if solveErr != nil {
		job.Status = dao.JobFailed
		job.Failure = solveErr.Error()
	} else {
		job.Status = dao.JobSucceeded
		job.Plan = plan
	}

	job, err = a.Store.Jobs().Update(req.Context(), job.ID, job)
	if err != nil {
		internalError(err.Error()).writeTo(w)
		return
	}

	resp := jobToResponse(domain, job)
	created(resp).writeTo(w)
}

func (a *API) handleGetJob(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		badRequest("id is not a valid UUID").writeTo(w)
		return
	}

	job, err := a.Store.Jobs().GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			notFound("no such job").writeTo(w)
			return
		}
		internalError(err.Error()).writeTo(w)
		return
	}

	owner := ownerFromContext(req.Context())
	if job.Owner != owner {
		notFound("no such job").writeTo(w)
		return
	}

	var domain *graphplan.Domain
	if job.Status == dao.JobSucceeded {
		domain = graphplan.NewDomain(job.Problem.Cargos, job.Problem.Rockets, job.Problem.Places,
			job.Problem.Init, job.Problem.Goal)
	}

	ok(jobToResponse(domain, job)).writeTo(w)
}

func jobToResponse(domain *graphplan.Domain, job dao.Job) jobResponse {
	resp := jobResponse{ID: job.ID, Status: string(job.Status), Failure: job.Failure}
	if job.Status == dao.JobSucceeded && domain != nil {
		elided := domain.Elide(job.Plan)
		for _, level := range elided {
			resp.Plan = append(resp.Plan, domain.StringLevel(level)...)
		}
		resp.Rendered = RenderPlan(domain, job.Plan)
	}
	return resp
}
