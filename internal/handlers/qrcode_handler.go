package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-qrcode-api/internal/aws"
	"github.com/imrishuroy/go-qrcode-api/internal/qrcode"
	"github.com/imrishuroy/go-qrcode-api/internal/records"
	"github.com/imrishuroy/go-qrcode-api/internal/response"
)

// HandlerConfig groups dependencies for the QR code handlers.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	SQSClient      aws.SQSAPI
	QRCodesTable   string
	EventsQueueURL string
	BaseURL        string
	Logger         *zap.Logger
}

// GenerateQRCodeRequest is the payload for POST /api/qrcode/generate.
type GenerateQRCodeRequest struct {
	Input   string                   `json:"input"`
	Options *qrcode.RawRenderOptions `json:"options"`
}

// qrCodeResource is the representation returned by generate and get.
type qrCodeResource struct {
	ID            string               `json:"id"`
	Input         string               `json:"input"`
	Options       qrcode.RenderOptions `json:"options"`
	QRCodeData    string               `json:"qrCodeData"`
	ShareableLink string               `json:"shareableLink,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// RegisterQRCodeRoutes registers the QR code API. A nil DynamoDB client is
// tolerated: the routes stay up and persistence-dependent calls answer 500,
// so a bad store configuration doesn't take the whole service down.
func RegisterQRCodeRoutes(r *gin.Engine, cfg HandlerConfig) {
	var store *records.Store
	if cfg.DynamoDBClient != nil {
		store = records.NewStore(cfg.DynamoDBClient, cfg.QRCodesTable)
	}

	var publisher *aws.Publisher
	if cfg.SQSClient != nil && cfg.EventsQueueURL != "" {
		publisher = aws.NewPublisher(cfg.SQSClient, cfg.EventsQueueURL)
	}

	grp := r.Group("/api/qrcode")
	grp.POST("/generate", generateQRCode(cfg, store, publisher))
	grp.GET("", getRecentQRCodes(cfg, store))
	grp.GET("/:id", getQRCode(cfg, store))
	grp.GET("/:id/download", downloadQRCode(cfg, store))
}

func generateQRCode(cfg HandlerConfig, store *records.Store, publisher *aws.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var req GenerateQRCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrWithDetails(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}

		// Validation runs to completion before any rendering or persistence:
		// an invalid request never leaves a partial record behind.
		opts := qrcode.Normalize(req.Options)
		if err := qrcode.ValidateInput(req.Input); err != nil {
			response.Err(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := qrcode.ValidateOptions(opts); err != nil {
			response.Err(c, http.StatusBadRequest, err.Error())
			return
		}

		dataURI, err := qrcode.DataURI(req.Input, opts, qrcode.FormatPNG)
		if err != nil {
			internalError(c, cfg.Logger, "render failed", err)
			return
		}

		if store == nil {
			internalError(c, cfg.Logger, "record store unavailable", nil)
			return
		}
		rec, err := store.Insert(ctx, req.Input, opts, "")
		if err != nil {
			internalError(c, cfg.Logger, "insert failed", err)
			return
		}

		// Fire-and-forget: generation events feed metrics only, so a publish
		// failure is logged and the response proceeds.
		if publisher != nil {
			ev := aws.GeneratedEvent{
				ID:        rec.ID,
				Format:    qrcode.FormatPNG,
				Size:      rec.Options.Size,
				CreatedAt: rec.CreatedAt,
			}
			if err := publisher.SendGeneratedEvent(ctx, ev, c.GetHeader("X-Request-Id")); err != nil {
				cfg.Logger.Warn("event publish failed", zap.String("id", rec.ID), zap.Error(err))
			}
		}

		response.Created(c, qrCodeResource{
			ID:            rec.ID,
			Input:         rec.Input,
			Options:       rec.Options,
			QRCodeData:    dataURI,
			ShareableLink: fmt.Sprintf("%s/api/qrcode/%s", baseURL(cfg, c), rec.ID),
			CreatedAt:     rec.CreatedAt,
		})
	}
}

func getQRCode(cfg HandlerConfig, store *records.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := lookupRecord(c, cfg, store)
		if !ok {
			return
		}

		// No image bytes are cached: the data URI is re-rendered fresh from
		// the stored input and options on every read.
		dataURI, err := qrcode.DataURI(rec.Input, rec.Options, qrcode.FormatPNG)
		if err != nil {
			internalError(c, cfg.Logger, "render failed", err)
			return
		}

		response.OK(c, qrCodeResource{
			ID:         rec.ID,
			Input:      rec.Input,
			Options:    rec.Options,
			QRCodeData: dataURI,
			CreatedAt:  rec.CreatedAt,
		})
	}
}

func downloadQRCode(cfg HandlerConfig, store *records.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", qrcode.FormatPNG)

		rec, ok := lookupRecord(c, cfg, store)
		if !ok {
			return
		}

		buf, err := qrcode.Buffer(rec.Input, rec.Options, format)
		if errors.Is(err, qrcode.ErrUnsupportedFormat) {
			response.Err(c, http.StatusBadRequest, "Invalid format. Must be png, jpeg, or svg")
			return
		}
		if err != nil {
			internalError(c, cfg.Logger, "render failed", err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "qrcode-"+rec.ID+"."+format))
		c.Header("Content-Length", strconv.Itoa(len(buf)))
		c.Data(http.StatusOK, "image/"+format, buf)
	}
}

func getRecentQRCodes(cfg HandlerConfig, store *records.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			internalError(c, cfg.Logger, "record store unavailable", nil)
			return
		}

		page := intQuery(c, "page", records.DefaultPage)
		limit := intQuery(c, "limit", records.DefaultLimit)

		recs, total, err := store.ListRecent(c.Request.Context(), page, limit)
		if err != nil {
			internalError(c, cfg.Logger, "list failed", err)
			return
		}

		response.OKList(c, recs, response.NewPagination(page, limit, total))
	}
}

// lookupRecord fetches the record for the :id route param, writing the 404 or
// 500 itself when the lookup doesn't produce one.
func lookupRecord(c *gin.Context, cfg HandlerConfig, store *records.Store) (*records.Record, bool) {
	if store == nil {
		internalError(c, cfg.Logger, "record store unavailable", nil)
		return nil, false
	}
	rec, err := store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, cfg.Logger, "lookup failed", err)
		return nil, false
	}
	if rec == nil {
		response.NotFound(c, "QR code not found")
		return nil, false
	}
	return rec, true
}

func baseURL(cfg HandlerConfig, c *gin.Context) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func intQuery(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func internalError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	if logger != nil {
		logger.Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	response.Internal(c)
}
