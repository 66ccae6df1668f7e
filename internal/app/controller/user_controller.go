package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/internal/app/service"
	apperrors "github.com/tteokbok/tteokbok-backend/internal/errors"
	"github.com/tteokbok/tteokbok-backend/internal/middleware"
	"github.com/tteokbok/tteokbok-backend/pkg/kakao"
)

type UserController struct {
	authService service.AuthService
}

func NewUserController(authService service.AuthService) *UserController {
	return &UserController{
		authService: authService,
	}
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type KakaoSigninRequest struct {
	AccessToken string `json:"access_token"`
}

// userPayload 비밀번호 해시를 제외한 회원 응답 형태
func userPayload(user *model.User) gin.H {
	var introduction interface{}
	if user.Introduction != "" {
		introduction = user.Introduction
	}
	var kakaoID interface{}
	if user.KakaoID != nil {
		kakaoID = *user.KakaoID
	}
	return gin.H{
		"id":                user.ID,
		"username":          user.Username,
		"introduction":      introduction,
		"email":             user.Email,
		"profile_image_url": user.ProfileImageURL,
		"kakao_id":          kakaoID,
	}
}

// Signup handles user registration
// POST /users/signup
func (ctrl *UserController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.KeyError, "Request body is not valid JSON.")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		apperrors.BadRequest(c, apperrors.KeyError, "username, email and password are required.")
		return
	}

	user, err := ctrl.authService.Signup(req.Username, req.Password, req.Email)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			apperrors.BadRequest(c, apperrors.ValidationError, validationErr.Reason)
			return
		}
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apperrors.Conflict(c, apperrors.DuplicatedEntry, "Entry email is duplicated.")
			return
		}
		log.Error("Signup failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "signup user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "SUCCESS",
		"data": gin.H{
			"user": userPayload(user),
		},
	})
}

// Signin handles email/password login
// POST /users/signin
func (ctrl *UserController) Signin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.KeyError, "Request body is not valid JSON.")
		return
	}
	if req.Email == "" || req.Password == "" {
		apperrors.BadRequest(c, apperrors.KeyError, "email and password are required.")
		return
	}

	user, token, err := ctrl.authService.Signin(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.Unauthorized(c, apperrors.InvalidUser, "Invalid user.")
			return
		}
		if errors.Is(err, service.ErrWrongPassword) {
			apperrors.Unauthorized(c, apperrors.WrongPassword, "Wrong Password Entered.")
			return
		}
		log.Error("Signin failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "SUCCESS",
		"data": gin.H{
			"token":    token,
			"username": user.Username,
		},
	})
}

// KakaoSignin handles social login with a kakao access token
// POST /users/signin/kakao
func (ctrl *UserController) KakaoSignin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req KakaoSigninRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AccessToken == "" {
		apperrors.BadRequest(c, apperrors.KeyError, "access_token is required.")
		return
	}

	user, token, err := ctrl.authService.KakaoSignin(c.Request.Context(), req.AccessToken)
	if err != nil {
		if errors.Is(err, service.ErrKakaoUnauthorized) {
			apperrors.Unauthorized(c, apperrors.TokenError, "Kakao token rejected.")
			return
		}
		if errors.Is(err, kakao.ErrUpstreamError) || errors.Is(err, kakao.ErrNetworkError) {
			log.Error("Kakao API call failed", err, nil)
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UpstreamAPIError, "Kakao API unavailable.")
			return
		}
		log.Error("Kakao signin failed", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "SUCCESS",
		"data": gin.H{
			"token":    token,
			"username": user.Username,
		},
	})
}

// Signout blacklists the presented token until it expires
// POST /users/signout
func (ctrl *UserController) Signout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, ok := middleware.GetToken(c)
	if !ok {
		apperrors.Unauthorized(c, apperrors.UnauthorizationError, "")
		return
	}

	if err := ctrl.authService.Signout(c.Request.Context(), token); err != nil {
		log.Error("Signout failed", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "SUCCESS",
	})
}

// Me returns the authenticated user's profile, password excluded
// GET /users/me
func (ctrl *UserController) Me(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, apperrors.UnauthorizationError, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.Unauthorized(c, apperrors.InvalidUser, "Invalid user.")
			return
		}
		log.Error("Failed to load user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "SUCCESS",
		"data": gin.H{
			"user": userPayload(user),
		},
	})
}
