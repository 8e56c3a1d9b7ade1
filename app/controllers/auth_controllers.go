package controllers

import (
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/middleware"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login accepts JSON or an OAuth2 password form (username, password).
func (ac *AuthController) Login(c *ctx.Context) {
	in, ok := credentials(c)
	if !ok {
		return
	}
	tok, err := ac.service.LoginUser(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(tok)
}

func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	user, err := ac.service.Register(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(user)
}

func (ac *AuthController) Me(c *ctx.Context) {
	me, err := ac.service.CurrentUser(c.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(me)
}

func (ac *AuthController) AdminLogin(c *ctx.Context) {
	in, ok := credentials(c)
	if !ok {
		return
	}
	tok, err := ac.service.LoginAdmin(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(tok)
}

// AdminCreate is open while no admin exists; afterwards the route's
// OptionalAdmin middleware must have found an admin token.
func (ac *AuthController) AdminCreate(c *ctx.Context) {
	var in services.AdminInput
	if !c.BindJSON(&in) {
		return
	}
	_, isAdmin := middleware.AdminIDFromCtx(c.Context())

	admin, err := ac.service.CreateAdmin(c.Context(), isAdmin, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(admin)
}

func (ac *AuthController) AdminMe(c *ctx.Context) {
	admin, err := ac.service.CurrentAdmin(c.Context(), adminID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(admin)
}

func (ac *AuthController) AdminUsers(c *ctx.Context) {
	users, page, err := ac.service.ListUsers(c.Context(), c.Page())
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(users, page)
}

func credentials(c *ctx.Context) (services.CredentialsInput, bool) {
	var in services.CredentialsInput
	if c.IsForm() {
		in.Username = c.PostForm("username")
		in.Password = c.PostForm("password")
		return in, c.Validate(&in)
	}
	return in, c.BindJSON(&in)
}
