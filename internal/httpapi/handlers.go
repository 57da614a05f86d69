package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"horse.fit/ansa/internal/globaltime"
	"horse.fit/ansa/internal/item"
	"horse.fit/ansa/internal/itemschema"
	"horse.fit/ansa/internal/macro"
	"horse.fit/ansa/internal/media"
	"horse.fit/ansa/internal/search"
	"horse.fit/ansa/internal/translation"
)

const healthPingTimeout = 2 * time.Second

type runMacroRequest struct {
	Macro string          `json:"macro"`
	Item  json.RawMessage `json:"item"`
}

func (s *Server) handleHealth(c echo.Context) error {
	database := "memory"
	if s.deps.Database != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
		defer cancel()
		if err := s.deps.Database.Ping(ctx); err != nil {
			s.logger.Error().Err(err).Msg("database ping failed")
			return c.JSON(http.StatusServiceUnavailable, jsendResponse{
				Status:  "error",
				Message: "Database unavailable",
				Code:    http.StatusServiceUnavailable,
			})
		}
		database = "ok"
	}
	return success(c, map[string]any{
		"service":          "ansa",
		"time":             globaltime.UTC(),
		"database":         database,
		"search_providers": s.deps.SearchProviders.Names(),
	})
}

func (s *Server) handleListMacros(c echo.Context) error {
	return success(c, map[string]any{
		"items": s.deps.Macros.List(),
	})
}

func (s *Server) handleRunMacro(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Could not read request body", nil)
	}

	var req runMacroRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}
	fieldErrors := map[string]string{}
	if strings.TrimSpace(req.Macro) == "" {
		fieldErrors["macro"] = "is required"
	}
	if len(req.Item) == 0 || string(req.Item) == "null" {
		fieldErrors["item"] = "is required"
	}
	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	doc, err := itemschema.ValidateDocument(req.Item)
	if err != nil {
		return failValidation(c, map[string]string{"item": err.Error()})
	}

	out, err := s.deps.Macros.Run(c.Request().Context(), req.Macro, doc.Item)
	if err != nil {
		return s.respondError(c, err, "Macro failed")
	}
	merged, err := doc.Merge(out)
	if err != nil {
		s.logger.Error().Err(err).Str("macro", req.Macro).Msg("merge macro result failed")
		return internalError(c, "Macro failed")
	}
	return success(c, map[string]any{
		"item": merged,
	})
}

func (s *Server) handleListProviders(c echo.Context) error {
	return success(c, map[string]any{
		"items": s.deps.SearchProviders.List(),
	})
}

func (s *Server) handleFind(c echo.Context) error {
	provider, err := s.deps.SearchProviders.Provider(c.Param("provider"))
	if err != nil {
		return failNotFound(c, "Search provider not found")
	}

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Could not read request body", nil)
	}
	query, err := search.ParseQuery(raw)
	if err != nil {
		return failValidation(c, map[string]string{"query": err.Error()})
	}

	items, err := provider.Find(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err, "Search failed")
	}
	return success(c, map[string]any{
		"items": items,
		"from":  query.From,
		"size":  query.PageSize(),
	})
}

func (s *Server) handleFetch(c echo.Context) error {
	provider, err := s.deps.SearchProviders.Provider(c.Param("provider"))
	if err != nil {
		return failNotFound(c, "Search provider not found")
	}
	guid := strings.TrimSpace(c.Param("guid"))
	if guid == "" {
		return failValidation(c, map[string]string{"guid": "is required"})
	}

	it, err := provider.Fetch(c.Request().Context(), guid)
	if err != nil {
		return s.respondError(c, err, "Fetch failed")
	}
	return success(c, map[string]any{
		"item": it,
	})
}

func (s *Server) handleProviderFile(c echo.Context) error {
	provider, err := s.deps.SearchProviders.Provider(c.Param("provider"))
	if err != nil {
		return failNotFound(c, "Search provider not found")
	}
	mediaID := strings.TrimSpace(c.Param("media_id"))
	rendition := item.Rendition{Href: c.Request().URL.String(), Media: mediaID}

	body, err := provider.FetchFile(c.Request().Context(), rendition.Href, rendition, nil)
	if err != nil {
		return s.respondError(c, err, "Media unavailable")
	}
	defer body.Close()

	reader := bufio.NewReader(body)
	head, _ := reader.Peek(512)
	return c.Stream(http.StatusOK, http.DetectContentType(head), reader)
}

func (s *Server) handleMedia(c echo.Context) error {
	body, file, err := s.deps.Media.Get(c.Request().Context(), c.Param("media_id"))
	if err != nil {
		return s.respondError(c, err, "Media unavailable")
	}
	defer body.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	header := c.Response().Header()
	if file.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(file.Size, 10))
	}
	if file.Filename != "" {
		header.Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", file.Filename))
	}
	return c.Stream(http.StatusOK, contentType, body)
}

// respondError maps lookup misses to 404 and remote failures to 502.
func (s *Server) respondError(c echo.Context, err error, message string) error {
	switch {
	case errors.Is(err, macro.ErrMacroNotFound),
		errors.Is(err, search.ErrProviderNotFound),
		errors.Is(err, search.ErrItemNotFound),
		errors.Is(err, media.ErrNotFound):
		return failNotFound(c, err.Error())
	case errors.Is(err, context.Canceled):
		return fail(c, 499, "Request cancelled", nil)
	case errors.Is(err, translation.ErrFailed), isRemoteFailure(c):
		s.logger.Error().Err(err).Str("path", c.Path()).Msg(strings.ToLower(message))
		return upstreamError(c, message)
	default:
		s.logger.Error().Err(err).Str("path", c.Path()).Msg(strings.ToLower(message))
		return internalError(c, message)
	}
}

// Search provider routes only fail on the remote side once lookups succeeded.
func isRemoteFailure(c echo.Context) bool {
	return strings.HasPrefix(c.Path(), "/api/v1/search-providers/")
}
