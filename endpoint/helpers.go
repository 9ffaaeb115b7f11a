package endpoint

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/medimatch/api/middleware"
	"github.com/medimatch/api/store"
	"github.com/medimatch/api/util"
)

// clientInfo carries the request origin for security logging.
type clientInfo struct {
	IP    string
	Agent string
}

func clientInfoFrom(c *gin.Context) clientInfo {
	return clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getStoreOrRespond(c *gin.Context) (store.Store, bool) {
	s, err := middleware.GetStore(c)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Store not available", Err: fmt.Errorf("store is nil")})
		return nil, false
	}
	return s, true
}
