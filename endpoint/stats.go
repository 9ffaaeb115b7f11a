package endpoint

import (
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/medimatch/api/util"
)

// HospitalViewCount is one row of the per-facility view leaderboard.
type HospitalViewCount struct {
	HospitalID string `json:"hospital_id" example:"h-floride"`
	Views      int64  `json:"views" example:"42"`
}

// StatsResponse is the admin dashboard payload.
type StatsResponse struct {
	TotalLogins        int64               `json:"totalLogins"`
	TotalRegistrations int64               `json:"totalRegistrations"`
	TotalMessages      int64               `json:"totalMessages"`
	HospitalViews      map[string]int64    `json:"hospitalViews"`
	TopHospitals       []HospitalViewCount `json:"topHospitals"`
}

// GetStats godoc
// @Summary      Application usage statistics
// @Description  Cumulative counters plus a per-facility view leaderboard
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=StatsResponse} "Stats"
// @Router       /admin/stats [get]
func GetStats(c *gin.Context) {
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	stats, err := s.GetStats(c.Request.Context())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load stats", Err: err})
		return
	}

	top := lo.MapToSlice(stats.HospitalViews, func(id string, views int64) HospitalViewCount {
		return HospitalViewCount{HospitalID: id, Views: views}
	})
	// Most viewed first, id as tiebreaker so the order is stable.
	top = lo.Filter(top, func(v HospitalViewCount, _ int) bool { return v.Views > 0 })
	sort.Slice(top, func(i, j int) bool {
		if top[i].Views != top[j].Views {
			return top[i].Views > top[j].Views
		}
		return top[i].HospitalID < top[j].HospitalID
	})

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Stats", Data: StatsResponse{
		TotalLogins:        stats.TotalLogins,
		TotalRegistrations: stats.TotalRegistrations,
		TotalMessages:      stats.TotalMessages,
		HospitalViews:      stats.HospitalViews,
		TopHospitals:       top,
	}})
}
