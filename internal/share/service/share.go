package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/response"
	"github.com/lk2023060901/ai-translator-backend/internal/share/biz"
)

type ShareService struct {
	useCase *biz.ShareUseCase
	logger  *logger.Logger
}

func NewShareService(useCase *biz.ShareUseCase, lgr *logger.Logger) *ShareService {
	if lgr == nil {
		lgr = logger.L()
	}
	return &ShareService{
		useCase: useCase,
		logger:  lgr.Named("share"),
	}
}

func (s *ShareService) RegisterRoutes(api *gin.RouterGroup) {
	shares := api.Group("/shares")
	{
		shares.POST("", s.CreateShare)
		shares.GET("/:id", s.GetShare)
		shares.GET("/:id/qrcode", s.GetQRCode)
	}
}

// CreateShare 创建分享链接
func (s *ShareService) CreateShare(c *gin.Context) {
	var req biz.CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrShareInvalidParams, err.Error())
		return
	}

	link, err := s.useCase.Create(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, biz.ToAppError(err))
		return
	}
	response.Created(c, link)
}

// GetShare 获取分享内容
func (s *ShareService) GetShare(c *gin.Context) {
	share, err := s.useCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, biz.ToAppError(err))
		return
	}
	response.Success(c, share)
}

// GetQRCode 返回分享链接二维码（PNG）
func (s *ShareService) GetQRCode(c *gin.Context) {
	png, err := s.useCase.QRCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, biz.ToAppError(err))
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
