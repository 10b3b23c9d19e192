package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/suggestbox/internal/common"
	"github.com/kataras/iris/v12"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type submitRequest struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

func (s *Server) handleLogin(ctx iris.Context) {
	var req loginRequest
	if err := ctx.ReadJSON(&req); err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": err.Error()})
		return
	}

	token, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			s.logger.Warn(ctx.Request().Context(), "failed login attempt")
			ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{"error": common.ErrInvalidCredentials.Error()})
			return
		}
		s.logger.Error(ctx.Request().Context(), err.Error())
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": common.ErrInternal.Error()})
		return
	}

	ctx.SetCookieKV(common.SessionCookieName, token,
		iris.CookiePath("/"),
		iris.CookieHTTPOnly(true),
		iris.CookieExpires(s.sessionValidity),
	)

	s.logger.Info(ctx.Request().Context(), "moderator logged in")
	ctx.JSON(iris.Map{"success": true, "message": "Login successful"})
}

func (s *Server) handleLogout(ctx iris.Context) {
	ctx.RemoveCookie(common.SessionCookieName)
	ctx.JSON(iris.Map{"success": true, "message": "Logged out successfully"})
}

func (s *Server) handleCheckAuth(ctx iris.Context) {
	username, ok := s.auth.Check(ctx.GetCookie(common.SessionCookieName))
	if !ok {
		ctx.JSON(iris.Map{"authenticated": false})
		return
	}
	ctx.JSON(iris.Map{"authenticated": true, "username": username})
}

func (s *Server) handleSubmit(ctx iris.Context) {
	var req submitRequest
	if err := ctx.ReadJSON(&req); err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": err.Error()})
		return
	}

	_, err := s.messages.Submit(ctx.Request().Context(), req.Message, req.Category)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "Message is required"})
			return
		}
		s.logger.Error(ctx.Request().Context(), err.Error())
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": common.ErrInternal.Error()})
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "message": "Your anonymous message has been submitted!"})
}

func (s *Server) handleList(ctx iris.Context) {
	list, err := s.messages.List(ctx.Request().Context())
	if err != nil {
		s.logger.Error(ctx.Request().Context(), err.Error())
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": common.ErrInternal.Error()})
		return
	}
	ctx.JSON(list)
}

func (s *Server) handleMarkRead(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := s.messages.MarkRead(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			ctx.StopWithJSON(iris.StatusNotFound, iris.Map{"error": "Message not found"})
			return
		}
		s.logger.Error(ctx.Request().Context(), err.Error())
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": common.ErrInternal.Error()})
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

func (s *Server) handleDelete(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := s.messages.Delete(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			ctx.StopWithJSON(iris.StatusNotFound, iris.Map{"error": "Message not found"})
			return
		}
		s.logger.Error(ctx.Request().Context(), err.Error())
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": common.ErrInternal.Error()})
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

func (s *Server) handleStats(ctx iris.Context) {
	stats, err := s.messages.Stats(ctx.Request().Context())
	if err != nil {
		s.logger.Error(ctx.Request().Context(), err.Error())
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": common.ErrInternal.Error()})
		return
	}
	ctx.JSON(stats)
}
