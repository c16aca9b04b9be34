package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/storefront/admin-console/internal/apiclient"
	"github.com/storefront/admin-console/internal/observability"
	"github.com/storefront/admin-console/internal/view"
	apperrors "github.com/storefront/admin-console/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestid.New(requestid.Config{Header: observability.RequestIDHeader}))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware renders failures as an error envelope plus a page
// notice. Canceled loads answer 204 with no body.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}
			if apiclient.IsCanceled(err) {
				metrics.RecordCanceled()
				c.Status(fiber.StatusNoContent)
				err = nil
				return
			}

			domainErr := classify(err)
			metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)

			fallback := domainErr.Message
			var pageErr *view.PageError
			if errors.As(err, &pageErr) {
				fallback = pageErr.Fallback
			}

			body := fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}
			if len(domainErr.Details) > 0 {
				body["details"] = domainErr.Details
			}
			if domainErr.HTTPStatus >= 500 {
				logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			c.Status(domainErr.HTTPStatus)
			_ = c.JSON(fiber.Map{
				"error":  body,
				"notice": view.ErrorNotice(err, fallback),
			})
			err = nil
		}()
		return c.Next()
	}
}

// classify maps backend, transport and framework errors onto the DomainError taxonomy.
func classify(err error) *apperrors.DomainError {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		return apperrors.ToDomainError(apperrors.NewUpstreamError(httpErr.StatusCode, apiclient.Message(err, "backend request failed"), err))
	}

	var transportErr *apiclient.TransportError
	if errors.As(err, &transportErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ToDomainError(apperrors.NewUpstreamError(0, "backend unavailable", err))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "HTTP_ERROR"
		switch fiberErr.Code {
		case http.StatusNotFound:
			code = "NOT_FOUND"
		case http.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
			code = "VALIDATION_FAILED"
		}
		return apperrors.NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}

	return apperrors.ToDomainError(err)
}
