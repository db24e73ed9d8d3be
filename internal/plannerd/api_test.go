package plannerd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/rocketplan/internal/plannerd/dao"
	"github.com/dekarrin/rocketplan/internal/plannerd/dao/inmem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProblemFile = `OBJECTS
( c1 CARGO )
( r1 ROCKET )
( p1 PLACE )
( p2 PLACE )

INIT
( at c1 p1 )
( at r1 p1 )
( has-fuel r1 )

GOAL
( at c1 p2 )
`

func newTestAPI(t *testing.T) (*API, dao.Store) {
	store := inmem.NewDatastore()
	return &API{Store: store, JWTSecret: []byte("test-secret"), MaxLevel: 0}, store
}

func issueTokenFor(t *testing.T, store dao.Store, secret []byte, owner uuid.UUID) string {
	_, err := IssueAPIKey(context.Background(), store.APIKeys(), owner)
	require.NoError(t, err)
	tok, err := generateJWT(secret, owner)
	require.NoError(t, err)
	return tok
}

func Test_HandleIssueToken(t *testing.T) {
	api, store := newTestAPI(t)
	owner := uuid.New()
	plaintext, err := IssueAPIKey(context.Background(), store.APIKeys(), owner)
	require.NoError(t, err)

	body, _ := json.Marshal(tokenRequest{Owner: owner, APIKey: plaintext})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", bytes.NewReader(body))
	w := httptest.NewRecorder()

	api.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func Test_HandleIssueToken_BadKey(t *testing.T) {
	api, store := newTestAPI(t)
	owner := uuid.New()
	_, err := IssueAPIKey(context.Background(), store.APIKeys(), owner)
	require.NoError(t, err)

	body, _ := json.Marshal(tokenRequest{Owner: owner, APIKey: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", bytes.NewReader(body))
	w := httptest.NewRecorder()

	api.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_HandleCreateJob_RequiresAuth(t *testing.T) {
	api, _ := newTestAPI(t)
	body, _ := json.Marshal(createJobRequest{ProblemFile: sampleProblemFile})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body))
	w := httptest.NewRecorder()

	api.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_HandleCreateJob_AndGetJob(t *testing.T) {
	api, store := newTestAPI(t)
	owner := uuid.New()
	tok := issueTokenFor(t, store, api.JWTSecret, owner)

	body, _ := json.Marshal(createJobRequest{ProblemFile: sampleProblemFile})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()

	api.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created jobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "succeeded", created.Status)
	assert.NotEmpty(t, created.Plan)

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+created.ID.String(), nil)
	getReq.Header.Set("Authorization", "Bearer "+tok)
	getW := httptest.NewRecorder()

	api.Router().ServeHTTP(getW, getReq)
	assert.Equal(t, http.StatusOK, getW.Code)

	var fetched jobResponse
	require.NoError(t, json.Unmarshal(getW.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Plan, fetched.Plan)
}

func Test_HandleGetJob_WrongOwner(t *testing.T) {
	api, store := newTestAPI(t)
	owner := uuid.New()
	tok := issueTokenFor(t, store, api.JWTSecret, owner)

	body, _ := json.Marshal(createJobRequest{ProblemFile: sampleProblemFile})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	api.Router().ServeHTTP(w, req)
	var created jobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	otherOwner := uuid.New()
	otherTok := issueTokenFor(t, store, api.JWTSecret, otherOwner)

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+created.ID.String(), nil)
	getReq.Header.Set("Authorization", "Bearer "+otherTok)
	getW := httptest.NewRecorder()
	api.Router().ServeHTTP(getW, getReq)

	assert.Equal(t, http.StatusNotFound, getW.Code)
}
