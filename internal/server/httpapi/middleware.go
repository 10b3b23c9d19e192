package httpapi

import (
	"github.com/dmitrijs2005/suggestbox/internal/common"
	"github.com/kataras/iris/v12"
)

const usernameContextKey = "moderator_username"

// requireSession guards every moderation route. It validates the session
// cookie before the handler runs and stops the request with 401 and a
// login_required marker otherwise, so clients can prompt re-authentication.
func (s *Server) requireSession(ctx iris.Context) {
	username, ok := s.auth.Check(ctx.GetCookie(common.SessionCookieName))
	if !ok {
		ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{
			"error":          common.ErrUnauthorized.Error(),
			"login_required": true,
		})
		return
	}

	ctx.Values().Set(usernameContextKey, username)
	ctx.Next()
}
