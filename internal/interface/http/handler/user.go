package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/rebook/internal/application/user"
	"github.com/xiebiao/rebook/internal/interface/http/dto"
	"github.com/xiebiao/rebook/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/rebook/pkg/errors"
	"github.com/xiebiao/rebook/pkg/jwt"
	"github.com/xiebiao/rebook/pkg/response"
)

// UserHandler 用户HTTP处理器
// Handler只负责解析请求、调用用例、写响应，业务规则在domain和application层
type UserHandler struct {
	signupUseCase *appuser.SignupUseCase
	loginUseCase  *appuser.LoginUseCase
	logoutUseCase *appuser.LogoutUseCase
	jwtManager    *jwt.Manager
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	signupUseCase *appuser.SignupUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	jwtManager *jwt.Manager,
) *UserHandler {
	return &UserHandler{
		signupUseCase: signupUseCase,
		loginUseCase:  loginUseCase,
		logoutUseCase: logoutUseCase,
		jwtManager:    jwtManager,
	}
}

// Signup 用户注册
// @Summary      用户注册
// @Description  创建读者账号，密码bcrypt加密保存
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.SignupRequest true "注册信息"
// @Success      200 {object} dto.SignupResponse "注册成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "邮箱或用户名已存在"
// @Router       /user/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("参数错误: "+err.Error()))
		return
	}

	result, err := h.signupUseCase.Execute(c.Request.Context(), appuser.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Fullname: req.Fullname,
		Username: req.Username,
		Contacts: req.Contacts,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Object(c, dto.SignupResponse{
		Type: response.TypeSuccess,
		User: dto.UserResponse{
			ID:       result.ID,
			Email:    result.Email,
			Name:     result.Name,
			Username: result.Username,
		},
	})
}

// Login 用户登录
// @Summary      用户登录
// @Description  校验邮箱密码，签发JWT（载荷含用户ID和角色）
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} dto.LoginResponse "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("参数错误: "+err.Error()))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Object(c, dto.LoginResponse{
		Type:      response.TypeSuccess,
		Token:     result.Token,
		Auth:      result.Auth,
		ExpiresAt: result.ExpiresAt.Unix(),
	})
}

// Logout 用户登出
// @Summary      用户登出
// @Description  当前Token加入黑名单，直到原本的过期时间
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Failure      401 {object} response.Response "未登录"
// @Router       /user/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	err := h.logoutUseCase.Execute(c.Request.Context(), claims.UserID, middleware.GetToken(c), h.jwtManager.TTL(claims))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
