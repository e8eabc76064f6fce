package api

import (
	"net/http"

	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/Domenick1991/skyrocket/internal/form"
	"github.com/Domenick1991/skyrocket/internal/service/login"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

type destinationResponse struct {
	Destination login.Destination `json:"destination"`
}

type meResponse struct {
	Kind      string        `json:"kind"`
	LoggedIn  bool          `json:"loggedIn"`
	Admin     bool          `json:"admin"`
	ID        int64         `json:"id,omitempty"`
	Firstname string        `json:"firstname"`
	Lastname  string        `json:"lastname"`
	Email     string        `json:"email"`
	Roles     []domain.Role `json:"roles,omitempty"`

	RestoreError string `json:"restoreError,omitempty"`
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.GET("/login/providers", h.providers)
	router.GET("/login/:provider/callback", h.callback)
	router.POST("/logout", h.logout)
	router.GET("/me", h.me)
	router.GET("/register", h.registrationForm)
	router.POST("/register", h.register)
}

func (h *AuthHandler) providers(c *gin.Context) {
	providers, err := currentSession(c).Backend.Login.Providers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

func (h *AuthHandler) callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	dest, err := currentSession(c).Login.HandleCallback(c.Request.Context(), c.Param("provider"), code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, destinationResponse{Destination: dest})
}

func (h *AuthHandler) logout(c *gin.Context) {
	dest, err := currentSession(c).Login.Logout(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, destinationResponse{Destination: dest})
}

// me restores the backend session on the first call of a client context.
func (h *AuthHandler) me(c *gin.Context) {
	s := currentSession(c)
	restoreErr := s.Restore(c.Request.Context())
	if restoreErr != nil {
		_ = c.Error(restoreErr)
	}

	resp := meResponse{
		Kind:      domain.KindOf(s.Identity.Current()),
		LoggedIn:  s.Identity.IsLoggedIn(),
		Admin:     s.Identity.IsAdmin(),
		ID:        s.Identity.ID(),
		Firstname: s.Identity.Firstname(),
		Lastname:  s.Identity.Lastname(),
		Email:     s.Identity.Email(),
	}
	if r, ok := s.Identity.Current().(domain.Registered); ok {
		resp.Roles = r.Roles
	}
	if restoreErr != nil {
		resp.RestoreError = restoreErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) registrationForm(c *gin.Context) {
	c.JSON(http.StatusOK, []*form.Step{currentSession(c).Login.RegistrationForm()})
}

func (h *AuthHandler) register(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dest, err := currentSession(c).Login.Register(c.Request.Context(), values)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, destinationResponse{Destination: dest})
}
