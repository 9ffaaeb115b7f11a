package endpoint

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/medimatch/api/middleware"
	"github.com/medimatch/api/store"
	"github.com/medimatch/api/util"
)

// ValidateToken godoc
// @Summary      Validate a session token
// @Description  Check the Authorization header against live sessions
// @Tags         Authentication
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Success      200 {object} util.APIResponse "Token is valid"
// @Failure      401 {object} util.APIResponse "Token is invalid or expired"
// @Router       /token/validate [get]
func ValidateToken(c *gin.Context) {
	token := middleware.SessionToken(c)
	if token == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Missing token", Err: fmt.Errorf("no authorization header")})
		return
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return util.GetJWTSecretByte(), nil
	})
	if err != nil || !parsed.Valid {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Token is invalid or expired", Err: fmt.Errorf("token validation failed")})
		return
	}
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	user, err := s.GetSessionUser(c.Request.Context(), token)
	if errors.Is(err, store.ErrNotFound) {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Session has been closed", Err: fmt.Errorf("no live session for token")})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Store error", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Token is valid",
		Data: map[string]interface{}{"email": user.Email, "valid": true},
	})
}
