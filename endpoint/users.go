package endpoint

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medimatch/api/config"
	"github.com/medimatch/api/middleware"
	"github.com/medimatch/api/model"
	"github.com/medimatch/api/util"
)

// UpdateProfileRequest carries a partial profile update. Only the fields
// present in the JSON body are applied.
type UpdateProfileRequest struct {
	Name          *string `json:"name"`
	YearsExp      *int    `json:"years_experience"`
	Specialty     *string `json:"specialty"`
	PreferredSize *string `json:"preferred_size"`
	PreferredVibe *string `json:"preferred_region_vibe"`
	Leisure       *string `json:"leisure"`
	WorkLife      *string `json:"work_life_balance"`
	Status        *string `json:"status"`
	Avatar        *string `json:"avatar"`
	Bio           *string `json:"bio"`
}

type ToggleAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// GetProfile godoc
// @Summary      Get the current user's profile
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=model.User} "Profile"
// @Router       /profile [get]
func GetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Not authenticated", Err: fmt.Errorf("no current user")})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Profile", Data: user})
}

// UpdateProfile godoc
// @Summary      Update the current user's profile
// @Description  Partial update; fields absent from the body are left untouched
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Fields to update"
// @Success      200 {object} util.APIResponse{data=model.User} "Profile updated"
// @Failure      400 {object} util.APIResponse "Validation failed"
// @Router       /profile [patch]
func UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Not authenticated", Err: fmt.Errorf("no current user")})
		return
	}
	if msg := applyProfileUpdate(&user, req); msg != "" {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: fmt.Errorf("profile validation failed")})
		return
	}
	if err := s.SaveUser(c.Request.Context(), &user); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update profile", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Profile updated", Data: user})
}

// applyProfileUpdate merges the provided fields into user, validating each one
// it touches. It returns a user-facing message on the first failure.
func applyProfileUpdate(user *model.User, req UpdateProfileRequest) string {
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return "Name is required"
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.YearsExp != nil {
		if *req.YearsExp <= 0 {
			return "Years of experience must be greater than zero"
		}
		user.YearsExp = *req.YearsExp
	}
	if req.Specialty != nil {
		if !model.ValidSpecialty(*req.Specialty) {
			return "Unknown specialty"
		}
		user.Specialty = *req.Specialty
	}
	if req.Status != nil {
		if !model.ValidStatus(*req.Status) {
			return "Unknown status"
		}
		user.Status = *req.Status
	}
	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		if bio == "" || bio == model.DefaultBio {
			return "Please write a short bio to introduce yourself to recruiters"
		}
		user.Bio = bio
	}
	if req.PreferredSize != nil {
		user.PreferredSize = *req.PreferredSize
	}
	if req.PreferredVibe != nil {
		user.PreferredVibe = *req.PreferredVibe
	}
	if req.Leisure != nil {
		user.Leisure = *req.Leisure
	}
	if req.WorkLife != nil {
		user.WorkLife = *req.WorkLife
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	return ""
}

// DeleteProfile godoc
// @Summary      Delete the current user's account
// @Description  Removes the account and closes all of its sessions
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Account deleted"
// @Router       /profile [delete]
func DeleteProfile(c *gin.Context) {
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Not authenticated", Err: fmt.Errorf("no current user")})
		return
	}
	ci := clientInfoFrom(c)
	if err := s.DeleteUser(c.Request.Context(), user.Email); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete account", Err: err})
		return
	}
	util.SessionEmailCacheDelete(middleware.CurrentToken(c))
	_ = util.InvalidateUserSessions(user.Email)
	util.LogAccountDeleted(user.Email, ci.IP, ci.Agent)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Account deleted", Data: map[string]interface{}{}})
}

// ListUsers godoc
// @Summary      List all accounts
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]model.User} "Users"
// @Router       /admin/users [get]
func ListUsers(c *gin.Context) {
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	users, err := s.GetAllUsers(c.Request.Context())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list users", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Users", Data: users})
}

// ToggleAdmin godoc
// @Summary      Grant or revoke admin rights
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email path string true "Target account email"
// @Param        request body ToggleAdminRequest true "Desired admin flag"
// @Success      200 {object} util.APIResponse{data=model.User} "Admin flag updated"
// @Failure      400 {object} util.APIResponse "Super admin cannot be demoted"
// @Failure      404 {object} util.APIResponse "Account not found"
// @Router       /admin/users/{email}/admin [patch]
func ToggleAdmin(c *gin.Context) {
	var req ToggleAdminRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentUser(c)
	email := model.NormalizeEmail(c.Param("email"))

	if !req.IsAdmin && email == model.NormalizeEmail(config.LoadConfig().AdminEmail) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "The designated admin account cannot be demoted",
			Err: fmt.Errorf("attempted super admin demotion"),
		})
		return
	}
	user, err := s.GetUser(c.Request.Context(), email)
	if err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Account not found", Err: err})
		return
	}
	user.IsAdmin = req.IsAdmin
	if err := s.SaveUser(c.Request.Context(), &user); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update account", Err: err})
		return
	}
	util.LogAdminToggled(user.Email, actor.Email, user.IsAdmin)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Admin flag updated", Data: user})
}
