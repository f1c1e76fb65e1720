package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"smsinbox/internal/model"
	"smsinbox/internal/store"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type MessageReader interface {
	List(params store.ListParams) ([]model.Message, int, error)
	Stats() (*model.Stats, error)
}

func Messages(messages MessageReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := store.ListParams{
			From:     normalizeMSISDNQuery(c.QueryParam("from")),
			Query:    c.QueryParam("q"),
			Page:     1,
			PageSize: defaultPageSize,
		}

		if raw := c.QueryParam("since"); raw != "" {
			since, err := model.ParseUTCTime(raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"detail": "since " + model.ErrorNotUTC.Error()})
			}
			params.Since = &since
		}

		if raw := c.QueryParam("page"); raw != "" {
			page, err := strconv.Atoi(raw)
			if err != nil || page < 1 {
				return c.JSON(http.StatusBadRequest, echo.Map{"detail": "page must be a positive integer"})
			}
			params.Page = page
		}

		if raw := c.QueryParam("page_size"); raw != "" {
			size, err := strconv.Atoi(raw)
			if err != nil || size < 1 || size > maxPageSize {
				return c.JSON(http.StatusBadRequest, echo.Map{"detail": "page_size must be between 1 and 100"})
			}
			params.PageSize = size
		}

		data, total, err := messages.List(params)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, echo.Map{
			"data":      data,
			"total":     total,
			"page":      params.Page,
			"page_size": params.PageSize,
		})
	}
}

func Stats(messages MessageReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := messages.Stats()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, stats)
	}
}

// normalizeMSISDNQuery repairs the common curl mistake of sending
// ?from=+123..., where the unencoded plus decodes to a space.
func normalizeMSISDNQuery(value string) string {
	s := strings.TrimSpace(value)
	if s == "" || strings.HasPrefix(s, "+") {
		return s
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	return "+" + s
}
