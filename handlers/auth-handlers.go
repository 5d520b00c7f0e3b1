package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Pratham-05/FarmNav-Website-Backend/internal/auth"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/sessions"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/users"
	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/ctxmanage"
	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/logkey"
)

func (h *Handler) Register(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId),
			slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"success": false, "message": "Request body too large."})
		return
	}

	var newUser users.NewUser
	if err := c.ShouldBindJSON(&newUser); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"success": false, "message": "All fields are required"})
		return
	}

	if err := h.validate.Struct(newUser); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			for _, vErr := range vErrs {
				switch vErr.Tag() {
				case "required":
					c.AbortWithStatusJSON(http.StatusBadRequest,
						gin.H{"success": false, "message": vErr.Field() + " value missing"})
					return
				case "min":
					c.AbortWithStatusJSON(http.StatusBadRequest,
						gin.H{"success": false, "message": vErr.Field() + " value is less than " + vErr.Param()})
					return
				default:
					c.AbortWithStatusJSON(http.StatusBadRequest,
						gin.H{"success": false, "message": http.StatusText(http.StatusBadRequest)})
					return
				}
			}
		}
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"success": false, "message": http.StatusText(http.StatusBadRequest)})
		return
	}

	if newUser.Password != newUser.ConfirmPassword {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"success": false, "message": "Passwords do not match"})
		return
	}

	user, err := h.u.InsertUser(c.Request.Context(), newUser)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			c.AbortWithStatusJSON(http.StatusConflict,
				gin.H{"success": false, "message": "Email already in use"})
		case errors.Is(err, users.ErrUsernameTaken):
			c.AbortWithStatusJSON(http.StatusConflict,
				gin.H{"success": false, "message": "Username already taken"})
		default:
			slog.Error("error in inserting the user", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.Error, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"success": false, "message": "Registration failed"})
		}
		return
	}

	// Registration logs the user straight in.
	if err := h.openSession(c, user); err != nil {
		slog.Error("failed to open session after registration", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"success": false, "message": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"success": false, "message": "Username/email and password are required"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"success": false, "message": "Username/email and password are required"})
		return
	}

	user, err := h.u.Authenticate(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			// Same message for unknown identifier and wrong password.
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": "Invalid credentials"})
			return
		}
		slog.Error("error during login", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"success": false, "message": "Login failed"})
		return
	}

	if err := h.openSession(c, user); err != nil {
		slog.Error("failed to open session", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"success": false, "message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie != "" {
		if sessionID, err := h.keys.ParseSessionID(cookie); err == nil {
			if err := h.s.Delete(c.Request.Context(), sessionID); err != nil {
				slog.Error("failed to delete session", slog.String(logkey.TraceID, traceId),
					slog.String(logkey.Error, err.Error()))
			}
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// CurrentUser answers from the session alone; no users-table round trip.
func (h *Handler) CurrentUser(c *gin.Context) {
	identity, ok := c.Request.Context().Value(auth.IdentityKey).(auth.Identity)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			gin.H{"success": false, "message": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       identity.UserID,
			"username": identity.Username,
			"email":    identity.Email,
		},
	})
}

func (h *Handler) openSession(c *gin.Context, user users.User) error {
	session, err := h.s.Create(c.Request.Context(), user.ID, user.Username, user.Email)
	if err != nil {
		return err
	}
	token, err := h.keys.SignSessionID(session.ID, session.ExpiresAt)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(sessions.TTL.Seconds()), "/", "",
		gin.Mode() == gin.ReleaseMode, true)
	return nil
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", gin.Mode() == gin.ReleaseMode, true)
}
