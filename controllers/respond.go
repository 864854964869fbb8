package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abdur28/boarding-sky-sub000/formdata"
	"github.com/abdur28/boarding-sky-sub000/inflight"
	"github.com/abdur28/boarding-sky-sub000/metrics"
	"github.com/abdur28/boarding-sky-sub000/services"
	"github.com/abdur28/boarding-sky-sub000/utils"
)

// respondError maps a service error onto the response envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalid), errors.Is(err, formdata.ErrNotStructPointer):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotAllowed), errors.Is(err, services.ErrConflict):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, inflight.ErrInProgress):
		metrics.DuplicateSubmissions.WithLabelValues(actionName(c)).Inc()
		utils.JSONError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("❌ %s failed: %v", actionName(c), err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

func actionName(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// readPayload accepts either a JSON object or a (multipart) form and returns
// the flattened values. JSON objects and arrays become JSON-encoded strings,
// matching what the dashboard forms post.
func readPayload(c *gin.Context) (formdata.Values, error) {
	ct := c.ContentType()
	if strings.HasPrefix(ct, "multipart/form-data") || ct == "application/x-www-form-urlencoded" {
		if strings.HasPrefix(ct, "multipart/") {
			if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
				return nil, fmt.Errorf("%w: %v", services.ErrInvalid, err)
			}
		} else if err := c.Request.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", services.ErrInvalid, err)
		}
		out := formdata.Values{}
		for k, vs := range c.Request.PostForm {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}
		return out, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	out := formdata.Values{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return out, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid request payload: %v", services.ErrInvalid, err)
	}
	for k, msg := range raw {
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			out[k] = s
			continue
		}
		if string(msg) == "null" {
			continue
		}
		out[k] = string(msg)
	}
	return out, nil
}

// filterFrom reads the optional list filter from the body or the query string.
func filterFrom(c *gin.Context) (string, error) {
	if q := c.Query("filter"); q != "" {
		return q, nil
	}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return "", nil
	}
	v, err := readPayload(c)
	if err != nil {
		return "", err
	}
	return v.Get("filter"), nil
}
