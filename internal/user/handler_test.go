package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	apperrors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/transport"
	"github.com/frahmantamala/expense-insight/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User Handler", func() {
	var (
		repo    *mockUserRepository
		handler *user.Handler
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		logger := newLogger()
		handler = user.NewHandler(transport.NewBaseHandler(logger), user.NewService(repo, logger))
	})

	authed := func(req *http.Request) *http.Request {
		return req.WithContext(apperrors.ContextWithUserID(context.Background(), "user-1"))
	}

	It("GET /users/me returns the profile", func() {
		w := httptest.NewRecorder()

		handler.GetCurrentUser(w, authed(httptest.NewRequest(http.MethodGet, "/users/me", nil)))

		Expect(w.Code).To(Equal(http.StatusOK))
		var body map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["email"]).To(Equal("asha@example.com"))
		Expect(body).NotTo(HaveKey("passwordHash"))
	})

	It("GET /users/me returns 401 without identity", func() {
		w := httptest.NewRecorder()

		handler.GetCurrentUser(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("PATCH /settings/name echoes the stored name", func() {
		req := authed(httptest.NewRequest(http.MethodPatch, "/settings/name", strings.NewReader(`{"name":" Ravi "}`)))
		w := httptest.NewRecorder()

		handler.UpdateName(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"name":"Ravi"}`))
	})

	It("PATCH /settings/name returns 400 for an empty name", func() {
		req := authed(httptest.NewRequest(http.MethodPatch, "/settings/name", strings.NewReader(`{"name":""}`)))
		w := httptest.NewRecorder()

		handler.UpdateName(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("POST /profile/image returns success with the user", func() {
		req := authed(httptest.NewRequest(http.MethodPost, "/profile/image", strings.NewReader(`{"imageUrl":"https://img.example.com/p.jpg"}`)))
		w := httptest.NewRecorder()

		handler.SetImage(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var body struct {
			Success bool                   `json:"success"`
			User    map[string]interface{} `json:"user"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Success).To(BeTrue())
		Expect(body.User["image"]).To(Equal("https://img.example.com/p.jpg"))
	})

	It("DELETE /profile/image returns success", func() {
		w := httptest.NewRecorder()

		handler.DeleteImage(w, authed(httptest.NewRequest(http.MethodDelete, "/profile/image", nil)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"success":true}`))
	})
})
