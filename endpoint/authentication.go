package endpoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/medimatch/api/config"
	"github.com/medimatch/api/middleware"
	"github.com/medimatch/api/model"
	"github.com/medimatch/api/store"
	"github.com/medimatch/api/util"
)

const (
	sessionDuration   = 24 * time.Hour
	maxFailedAttempts = 5
	accountLockPeriod = 15 * time.Minute
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email" example:"doc@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
	Name     string `json:"name" example:"Alice"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"doc@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type AuthResponse struct {
	Token string     `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  model.User `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"doc@example.com"`
}

// Signup godoc
// @Summary      Create an account
// @Description  Register a medical professional and open a session
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup payload"
// @Success      200 {object} util.APIResponse{data=AuthResponse} "Account created"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      409 {object} util.APIResponse "Email already registered"
// @Router       /signup [post]
func Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	ci := clientInfoFrom(c)
	email := model.NormalizeEmail(req.Email)

	_, err := s.GetUser(c.Request.Context(), email)
	if err == nil {
		util.CallUserConflict(c, util.APIErrorParams{
			Msg: "An account already exists for this email, log in instead",
			Err: fmt.Errorf("email already registered"),
		})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		util.CallServerError(c, util.APIErrorParams{Msg: "Store error", Err: err})
		return
	}

	salt, err := util.GenerateSalt()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate password salt", Err: err})
		return
	}
	hash, err := util.HashPassword(req.Password, salt)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to hash password", Err: err})
		return
	}

	user := model.User{
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Name:         req.Name,
		// The designated back-office address is an admin from the start.
		IsAdmin: email == model.NormalizeEmail(config.LoadConfig().AdminEmail),
	}
	if err := s.SaveUser(c.Request.Context(), &user); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create account", Err: err})
		return
	}
	if err := s.IncrementStat(c.Request.Context(), store.StatRegistration, ""); err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			Email:     email,
			Message:   fmt.Sprintf("Failed to count registration: %v", err),
		})
	}

	token, ok := openSession(c, s, user, ci)
	if !ok {
		return
	}
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventSignupSuccess,
		Email:     email,
		IP:        ci.IP,
		UserAgent: ci.Agent,
		Message:   "Account created",
	})
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Account created",
		Data: AuthResponse{Token: token, User: user},
	})
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=AuthResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid email or password"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	ci := clientInfoFrom(c)
	email := model.NormalizeEmail(req.Email)
	lc := loginContext{C: c, S: s, Email: email, CI: ci}

	user, ok := loadUserForLogin(lc)
	if !ok {
		return
	}
	if !ensureAccountNotLocked(lc, &user) {
		return
	}
	if !verifyPasswordOrRespond(lc, &user, req.Password) {
		return
	}
	finalizeLogin(lc, &user)
}

// loginContext bundles what every step of the login flow needs.
type loginContext struct {
	C     *gin.Context
	S     store.Store
	Email string
	CI    clientInfo
}

func loadUserForLogin(lc loginContext) (model.User, bool) {
	user, err := lc.S.GetUser(lc.C.Request.Context(), lc.Email)
	if errors.Is(err, store.ErrNotFound) {
		util.LogLoginFailure(lc.Email, lc.CI.IP, lc.CI.Agent, "user not found")
		util.CallUserError(lc.C, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("user not found")})
		return model.User{}, false
	}
	if err != nil {
		util.LogLoginFailure(lc.Email, lc.CI.IP, lc.CI.Agent, "store error")
		util.CallServerError(lc.C, util.APIErrorParams{Msg: "Store error", Err: err})
		return model.User{}, false
	}
	return user, true
}

func ensureAccountNotLocked(lc loginContext, user *model.User) bool {
	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		util.LogLoginFailure(lc.Email, lc.CI.IP, lc.CI.Agent, "account locked")
		util.CallUserError(lc.C, util.APIErrorParams{
			Msg: fmt.Sprintf("Account is locked until %s due to multiple failed login attempts", user.LockedUntil.Format(time.RFC3339)),
			Err: fmt.Errorf("account locked"),
		})
		return false
	}
	return true
}

func verifyPasswordOrRespond(lc loginContext, user *model.User, plain string) bool {
	if util.VerifyPassword(plain, user.PasswordSalt, user.PasswordHash) {
		return true
	}
	incrementFailedAttempts(lc, user)
	util.LogLoginFailure(lc.Email, lc.CI.IP, lc.CI.Agent, "invalid password")
	util.CallUserError(lc.C, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("invalid password")})
	return false
}

func incrementFailedAttempts(lc loginContext, user *model.User) {
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= maxFailedAttempts {
		lockUntil := time.Now().Add(accountLockPeriod)
		user.LockedUntil = &lockUntil
		util.LogAccountLocked(user.Email, lc.CI.IP, "too many failed login attempts")
		// Lockout also invalidates whatever sessions are cached in Redis.
		_ = util.InvalidateUserSessions(user.Email)
	}
	if err := lc.S.SaveUser(lc.C.Request.Context(), user); err != nil {
		util.LogLoginFailure(user.Email, lc.CI.IP, lc.CI.Agent, "failed to update failed attempts")
	}
}

func finalizeLogin(lc loginContext, user *model.User) {
	changed := false
	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
		changed = true
	}
	// The designated back-office address is always escalated, never demoted.
	if lc.Email == model.NormalizeEmail(config.LoadConfig().AdminEmail) && !user.IsAdmin {
		user.IsAdmin = true
		changed = true
	}
	if changed {
		if err := lc.S.SaveUser(lc.C.Request.Context(), user); err != nil {
			util.CallServerError(lc.C, util.APIErrorParams{Msg: "Failed to update account", Err: err})
			return
		}
	}

	token, ok := openSession(lc.C, lc.S, *user, lc.CI)
	if !ok {
		return
	}
	if err := lc.S.IncrementStat(lc.C.Request.Context(), store.StatLogin, ""); err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			Email:     user.Email,
			Message:   fmt.Sprintf("Failed to count login: %v", err),
		})
	}
	util.LogLoginSuccess(user.Email, lc.CI.IP, lc.CI.Agent)
	util.CallSuccessOK(lc.C, util.APISuccessParams{
		Msg:  "Login successful",
		Data: AuthResponse{Token: token, User: *user},
	})
}

// openSession signs a JWT and registers it as the session token, mirroring it
// to Redis best-effort.
func openSession(c *gin.Context, s store.Store, user model.User, ci clientInfo) (string, bool) {
	expiresAt := time.Now().Add(sessionDuration)
	// jti keeps tokens unique even when the same account logs in twice within
	// the same second, so sessions can be closed independently.
	claims := jwt.MapClaims{
		"email": user.Email,
		"exp":   expiresAt.Unix(),
		"jti":   uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(util.GetJWTSecretByte())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return "", false
	}
	if err := s.SetSession(c.Request.Context(), token, user.Email, expiresAt); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return "", false
	}
	util.SessionEmailCacheSet(token, user.Email)
	if rdb := config.GetRedisClient(); rdb != nil {
		exp := time.Until(expiresAt)
		_ = rdb.Set(context.Background(), fmt.Sprintf("session:%s", token), user.Email, exp).Err()
		_ = util.AddSessionToUserSet(user.Email, token)
	}
	return token, true
}

// Logout godoc
// @Summary      Close the current session
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Logged out"
// @Router       /logout [delete]
func Logout(c *gin.Context) {
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)
	token := middleware.CurrentToken(c)
	ci := clientInfoFrom(c)

	if err := s.ClearSession(c.Request.Context(), token); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to close session", Err: err})
		return
	}
	util.SessionEmailCacheDelete(token)
	_ = util.RemoveSessionTokenFromUserSet(user.Email, token)
	util.LogLogout(user.Email, ci.IP, ci.Agent)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logged out", Data: map[string]interface{}{}})
}

// ForgotPassword godoc
// @Summary      Request a password reset
// @Description  Always answers with a generic success so account existence is not leaked
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Account email"
// @Success      200 {object} util.APIResponse "Reset instructions sent if the account exists"
// @Router       /password/forgot [post]
func ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	ci := clientInfoFrom(c)
	email := model.NormalizeEmail(req.Email)

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventPasswordResetRequest,
		Email:     email,
		IP:        ci.IP,
		UserAgent: ci.Agent,
		Message:   "Password reset requested",
	})
	// Same response whether or not the account exists.
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "If an account exists for this email, reset instructions have been sent",
		Data: map[string]interface{}{},
	})
}
