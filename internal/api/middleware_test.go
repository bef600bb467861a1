package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pairchat/go-pairchat/internal/testutil"
	"github.com/pairchat/go-pairchat/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	t.Run("passes through normal requests", func(t *testing.T) {
		app := &PairChatApp{log: testutil.TestLogger(t)}

		handler := app.errorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code, "expected status code to be 200")
	})

	t.Run("recovers from panics", func(t *testing.T) {
		app := &PairChatApp{log: testutil.TestLogger(t)}

		handler := app.errorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code, "expected status code to be 500")
		assert.Equal(t, "close", rr.Header().Get("Connection"), "expected connection close header")
	})
}

func TestAuthMiddleware(t *testing.T) {
	app := &PairChatApp{
		log:        testutil.TestLogger(t),
		signingKey: []byte("test-signing-key"),
	}

	t.Run("rejects request without cookie", func(t *testing.T) {
		handler := app.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
			t.Error("expected handler not to be called")
		})

		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "expected status code to be 401")
	})

	t.Run("rejects request with invalid token", func(t *testing.T) {
		handler := app.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
			t.Error("expected handler not to be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: tokenCookieKey, Value: "not-a-token"})

		rr := httptest.NewRecorder()
		handler(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "expected status code to be 401")
	})

	t.Run("passes user id to handler", func(t *testing.T) {
		token, err := app.createJwtForSession(types.User{Id: 7}, accessTokenExpiration)
		assert.NoError(t, err, "expected no error creating token")

		var called bool
		handler := app.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
			called = true
			userId, ok := UserId(r.Context())
			assert.True(t, ok, "expected user id in request context")
			assert.Equal(t, 7, userId, "expected user id to match")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: tokenCookieKey, Value: token})

		rr := httptest.NewRecorder()
		handler(rr, req)
		assert.True(t, called, "expected handler to be called")
		assert.Equal(t, "no-store, no-cache, must-revalidate, private", rr.Header().Get("Cache-Control"),
			"expected cache control header to be set")
	})
}
