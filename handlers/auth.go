package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	mw "github.com/padraicbc/recipeshare/middleware"
	"github.com/padraicbc/recipeshare/models"
)

type credentials struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	ImageURL *string `json:"image_url"`
	Bio      *string `json:"bio"`
}

type userData struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	ImageURL *string `json:"image_url"`
	Bio      *string `json:"bio"`
}

func publicUser(u *models.User) userData {
	return userData{
		ID:       u.ID,
		Username: u.Username,
		ImageURL: u.ImageURL,
		Bio:      u.Bio,
	}
}

func isDuplicateKey(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

// Signup creates an account, signs the caller in and returns the public profile.
//
// Username uniqueness is checked twice: once up front for a friendly error,
// and again via the unique constraint when the insert lands. Two signups can
// race past the first check, so a constraint violation inside the transaction
// is reported as the same duplicate-username error after rollback.
func (h *Handler) Signup(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	creds.Username = strings.TrimSpace(creds.Username)

	ctx := c.Request().Context()

	exists, err := h.db.NewSelect().Model((*models.User)(nil)).
		Where("username = ?", creds.Username).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if exists {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := &models.User{
		Username: creds.Username,
		Password: string(hash),
		ImageURL: creds.ImageURL,
		Bio:      creds.Bio,
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
		_ = tx.Rollback()
		if isDuplicateKey(err) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "Username already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit(); err != nil {
		if isDuplicateKey(err) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "Username already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	cookie, err := mw.NewSessionCookie(user.ID, h.SessionKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusCreated, publicUser(user))
}

// CheckSession returns the profile of the signed-in user. A session whose
// user no longer exists reads the same as no session at all.
func (h *Handler) CheckSession(c echo.Context) error {
	uid, ok := mw.SessionUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	user := &models.User{}
	err := h.db.NewSelect().Model(user).
		Where("u.id = ?", uid).
		Scan(c.Request().Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, publicUser(user))
}

// Login verifies credentials and starts a session. An unknown username and a
// wrong password return the identical error so the route can't be used to
// enumerate accounts.
func (h *Handler) Login(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	creds.Username = strings.TrimSpace(creds.Username)

	if creds.Username == "" || creds.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password required")
	}

	user := &models.User{}
	err := h.db.NewSelect().Model(user).
		Where("username = ?", creds.Username).
		Scan(c.Request().Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	cookie, err := mw.NewSessionCookie(user.ID, h.SessionKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, publicUser(user))
}

// Logout clears the session cookie.
func (h *Handler) Logout(c echo.Context) error {
	if _, ok := mw.SessionUserID(c); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	c.SetCookie(mw.ClearSessionCookie())
	return c.NoContent(http.StatusNoContent)
}
