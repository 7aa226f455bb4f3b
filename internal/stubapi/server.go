// Package stubapi is an in-memory implementation of the factory platform
// REST API: the same paths, payloads, and error envelopes the real service
// exposes. It backs local development and the console's end-to-end tests,
// where it runs inside an httptest server.
package stubapi

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/factoryhq/console/internal/core/domain"
)

const tokenTTL = 24 * time.Hour

// message is the error envelope the platform renders on failures.
type message struct {
	Message string `json:"message"`
}

type account struct {
	user domain.User
	hash []byte
}

// Server holds the platform state behind a mutex; handlers are small enough
// that a single lock is fine for a development stub.
type Server struct {
	secret string
	e      *echo.Echo

	mu        sync.Mutex
	accounts  map[string]*account        // by user id
	factories map[string]*domain.Factory // by factory id
	seq       map[string]int             // employee-id counters, keyed by factory code + role
}

// New builds a stub platform signing its bearer tokens with secret.
func New(secret string) *Server {
	s := &Server{
		secret:    secret,
		accounts:  make(map[string]*account),
		factories: make(map[string]*domain.Factory),
		seq:       make(map[string]int),
	}

	e := echo.New()
	e.HideBanner = true

	e.POST("/login", s.login)
	e.GET("/factories", s.listFactories, s.auth)
	e.POST("/factories", s.createFactory, s.auth)
	e.GET("/factory/:id/users", s.listFactoryUsers, s.auth)
	e.POST("/factory/:id/users", s.createFactoryUser, s.auth)
	e.PUT("/users/:id", s.updateUser, s.auth)
	e.DELETE("/users/:id", s.deleteUser, s.auth)

	s.e = e
	return s
}

// Handler exposes the stub as an http.Handler for httptest and cmd/stubapi.
func (s *Server) Handler() http.Handler { return s.e }

// SeedSuperadmin creates the platform operator account.
func (s *Server) SeedSuperadmin(email, password, name string) (*domain.User, error) {
	return s.addUser(domain.User{
		Email: email,
		Name:  name,
		Role:  domain.RoleSuperadmin,
	}, password)
}

func (s *Server) addUser(u domain.User, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if strings.EqualFold(acc.user.Email, u.Email) {
			return nil, domain.ErrUserExists
		}
	}

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	if u.Role.TenantScoped() && u.FactoryID != "" {
		if f, ok := s.factories[u.FactoryID]; ok {
			u.FactoryName = f.Name
			u.EmployeeID = s.nextEmployeeID(f.Code, u.Role)
		}
	}
	s.accounts[u.ID] = &account{user: u, hash: hash}

	out := u
	return &out, nil
}

// nextEmployeeID generates factory-scoped identifiers like SFLEMP001.
// Callers hold s.mu.
func (s *Server) nextEmployeeID(code string, role domain.Role) string {
	abbrev := map[domain.Role]string{
		domain.RoleEmployee:   "EMP",
		domain.RoleSupervisor: "SUVR",
		domain.RoleAdmin:      "ADM",
	}[role]
	key := code + abbrev
	s.seq[key]++
	return fmt.Sprintf("%s%s%03d", code, abbrev, s.seq[key])
}

// --- Auth ---

func (s *Server) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

// auth validates the bearer token and stashes the calling user in context.
func (s *Server) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.JSON(http.StatusUnauthorized, message{Message: "Authentication required"})
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.secret), nil
		})
		if err != nil || !tkn.Valid {
			return c.JSON(http.StatusUnauthorized, message{Message: "Invalid token"})
		}

		sub, _ := claims["sub"].(string)
		s.mu.Lock()
		acc, ok := s.accounts[sub]
		var caller domain.User
		if ok {
			caller = acc.user
		}
		s.mu.Unlock()
		if !ok {
			return c.JSON(http.StatusUnauthorized, message{Message: "Invalid token"})
		}

		c.Set("caller", caller)
		return next(c)
	}
}

func callerFrom(c echo.Context) domain.User {
	caller, _ := c.Get("caller").(domain.User)
	return caller
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	User    domain.User     `json:"user"`
	Factory *domain.Factory `json:"factory,omitempty"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message{Message: "Invalid request"})
	}

	s.mu.Lock()
	var acc *account
	for _, candidate := range s.accounts {
		if strings.EqualFold(candidate.user.Email, req.Email) {
			acc = candidate
			break
		}
	}
	s.mu.Unlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, message{Message: "Invalid email or password"})
	}

	token, err := s.issueToken(acc.user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, message{Message: "Could not issue token"})
	}

	s.mu.Lock()
	now := time.Now().UTC()
	acc.user.LastLogin = &now
	user := acc.user
	var factory *domain.Factory
	if user.FactoryID != "" {
		if f, ok := s.factories[user.FactoryID]; ok {
			clone := *f
			factory = &clone
		}
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user, Factory: factory})
}

// --- Factories ---

func (s *Server) listFactories(c echo.Context) error {
	if callerFrom(c).Role != domain.RoleSuperadmin {
		return c.JSON(http.StatusForbidden, message{Message: "Forbidden"})
	}

	s.mu.Lock()
	out := make([]domain.Factory, 0, len(s.factories))
	for _, f := range s.factories {
		out = append(out, *f)
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, out)
}

type createFactoryRequest struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
	AdminName     string `json:"admin_name"`
}

func (s *Server) createFactory(c echo.Context) error {
	if callerFrom(c).Role != domain.RoleSuperadmin {
		return c.JSON(http.StatusForbidden, message{Message: "Forbidden"})
	}

	var req createFactoryRequest
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Code == "" || req.AdminEmail == "" {
		return c.JSON(http.StatusBadRequest, message{Message: "Invalid request"})
	}

	code := domain.NormalizeCode(req.Code)

	s.mu.Lock()
	for _, f := range s.factories {
		if f.CodeMatches(code) {
			s.mu.Unlock()
			return c.JSON(http.StatusConflict, message{Message: "Factory code already in use"})
		}
	}
	factory := &domain.Factory{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Code:      code,
		CreatedAt: time.Now().UTC(),
		Status:    domain.FactoryActive,
	}
	s.factories[factory.ID] = factory
	s.mu.Unlock()

	admin, err := s.addUser(domain.User{
		Email:     req.AdminEmail,
		Name:      req.AdminName,
		Role:      domain.RoleAdmin,
		FactoryID: factory.ID,
	}, req.AdminPassword)
	if err != nil {
		s.mu.Lock()
		delete(s.factories, factory.ID)
		s.mu.Unlock()
		return c.JSON(http.StatusConflict, message{Message: "Admin email already in use"})
	}

	s.mu.Lock()
	factory.AdminID = admin.ID
	out := *factory
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, out)
}

// --- Users ---

// mayManage reports whether caller may act on factoryID's users.
func mayManage(caller domain.User, factoryID string) bool {
	if caller.Role == domain.RoleSuperadmin {
		return true
	}
	return caller.FactoryID == factoryID
}

func (s *Server) listFactoryUsers(c echo.Context) error {
	factoryID := c.Param("id")
	if !mayManage(callerFrom(c), factoryID) {
		return c.JSON(http.StatusForbidden, message{Message: "Forbidden"})
	}

	s.mu.Lock()
	_, ok := s.factories[factoryID]
	out := make([]domain.User, 0)
	for _, acc := range s.accounts {
		if acc.user.FactoryID == factoryID {
			out = append(out, acc.user)
		}
	}
	s.mu.Unlock()

	if !ok {
		return c.JSON(http.StatusNotFound, message{Message: "Factory not found"})
	}
	return c.JSON(http.StatusOK, out)
}

type createUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
}

func (s *Server) createFactoryUser(c echo.Context) error {
	factoryID := c.Param("id")
	caller := callerFrom(c)
	if !mayManage(caller, factoryID) || !caller.Role.AtLeast(domain.RoleAdmin) {
		return c.JSON(http.StatusForbidden, message{Message: "Forbidden"})
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, message{Message: "Invalid request"})
	}
	if !req.Role.Valid() || req.Role == domain.RoleSuperadmin {
		return c.JSON(http.StatusBadRequest, message{Message: "Invalid role"})
	}

	s.mu.Lock()
	_, ok := s.factories[factoryID]
	s.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusNotFound, message{Message: "Factory not found"})
	}

	user, err := s.addUser(domain.User{
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		FactoryID: factoryID,
	}, req.Password)
	if err != nil {
		return c.JSON(http.StatusConflict, message{Message: "Email already in use"})
	}
	return c.JSON(http.StatusCreated, user)
}

type updateUserRequest struct {
	Email *string      `json:"email"`
	Name  *string      `json:"name"`
	Role  *domain.Role `json:"role"`
}

func (s *Server) updateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message{Message: "Invalid request"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, message{Message: "User not found"})
	}
	if !mayManage(callerFrom(c), acc.user.FactoryID) {
		return c.JSON(http.StatusForbidden, message{Message: "Forbidden"})
	}

	if req.Email != nil {
		acc.user.Email = *req.Email
	}
	if req.Name != nil {
		acc.user.Name = *req.Name
	}
	if req.Role != nil {
		if !req.Role.Valid() || *req.Role == domain.RoleSuperadmin {
			return c.JSON(http.StatusBadRequest, message{Message: "Invalid role"})
		}
		acc.user.Role = *req.Role
	}
	return c.JSON(http.StatusOK, acc.user)
}

func (s *Server) deleteUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, message{Message: "User not found"})
	}
	if !mayManage(callerFrom(c), acc.user.FactoryID) {
		return c.JSON(http.StatusForbidden, message{Message: "Forbidden"})
	}

	delete(s.accounts, c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
