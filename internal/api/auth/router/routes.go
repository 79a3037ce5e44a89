// Package router đăng ký các route thuộc domain auth: phiên, tùy chọn giao diện, nhân viên, quyền.
package router

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authhdl "bearh/internal/api/auth/handler"
	basehdl "bearh/internal/api/base/handler"
	apirouter "bearh/internal/api/router"
	"bearh/internal/authz"
)

// Register đăng ký route auth lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	s := r.Services

	sessionHandler := authhdl.NewSessionHandler(s.Users)
	v1.Post("/auth/login", sessionHandler.HandleLogin)
	v1.Post("/auth/logout", sessionHandler.HandleLogout)
	v1.Get("/auth/me", basehdl.Loader(r.Auth, nil, sessionHandler.HandleMe))

	v1.Get("/session/preferences", sessionHandler.HandleGetPreferences)
	v1.Post("/session/preferences", sessionHandler.HandleSetPreferences)

	userHandler := authhdl.NewUserHandler(s.Users, s.Access, authhdl.UserCleanupFunc(func(c fiber.Ctx, userID primitive.ObjectID) error {
		return forgetUser(c.Context(), s, userID)
	}))
	r.RegisterActions(v1, "/users", "users", userHandler.Actions())
	r.RegisterActions(v1, "/access", "access", userHandler.AccessActions())

	readUsers := authz.Permission("User.Read")
	v1.Get("/users", basehdl.Loader(r.Auth, readUsers, userHandler.ListUsers))
	v1.Get("/users/:id", basehdl.Loader(r.Auth, readUsers, userHandler.GetUser))
	v1.Get("/access/catalogue", basehdl.Loader(r.Auth, authz.Permission("Access.Read"), userHandler.Catalogue))
	return nil
}

type memberForgetter interface {
	Forget(ctx context.Context, userID primitive.ObjectID) error
}

// forgetUser gỡ user đã xóa khỏi mọi loại nhóm và thu hồi tài sản
func forgetUser(ctx context.Context, s *apirouter.Services, userID primitive.ObjectID) error {
	groups := []memberForgetter{s.Departments, s.Teams, s.Positions, s.HourGroups, s.BonusCategories}
	for _, g := range groups {
		if err := g.Forget(ctx, userID); err != nil {
			return err
		}
	}
	_, err := s.Assets.ReleaseAll(ctx, userID)
	return err
}
