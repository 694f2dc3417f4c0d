package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/getmockd/xmlbridge/pkg/httputil"
)

// DatasetTTL is how long clients and shared caches may reuse the dataset.
const DatasetTTL = 300

// APIKeyHeader is an alternative to the bearer token for the dataset.
const APIKeyHeader = "X-API-Key"

// DatasetResponse is the body of GET /api/dataset.
type DatasetResponse struct {
	Version string `json:"version"`
	Hash    string `json:"hash"`
	Base64  string `json:"base64"`
}

// datasetToken reads the caller's token from a bearer Authorization
// header, then X-API-Key, then the token query parameter.
func datasetToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return strings.TrimSpace(key)
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	if s.cfg.DatasetFile == "" {
		httputil.WriteNotFound(w, "dataset_not_configured", "no dataset file is configured")
		return
	}

	if required := strings.TrimSpace(s.cfg.DatasetToken); required != "" {
		supplied := datasetToken(r)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(required)) != 1 {
			s.metrics.DatasetDownloads.With("401").Inc()
			httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", "a valid dataset token is required")
			return
		}
	}

	data, err := os.ReadFile(s.cfg.DatasetFile)
	if err != nil {
		s.log.Error("reading dataset", "file", s.cfg.DatasetFile, "error", err)
		httputil.WriteInternalError(w, "dataset_unavailable", "the dataset could not be read")
		return
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	sum := sha256.Sum256([]byte(encoded))
	hash := hex.EncodeToString(sum[:])
	etag := `"` + hash + `"`

	version := s.cfg.DatasetVersion
	if version == "" {
		version = hash[:12]
	}

	if r.Header.Get("If-None-Match") == etag {
		s.metrics.DatasetDownloads.With("304").Inc()
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	ttl := strconv.Itoa(DatasetTTL)
	w.Header().Set("Cache-Control", "private, max-age="+ttl+", s-maxage="+ttl+", stale-while-revalidate=600")
	w.Header().Set("ETag", etag)
	s.metrics.DatasetDownloads.With("200").Inc()
	httputil.WriteOK(w, DatasetResponse{Version: version, Hash: hash, Base64: encoded})
}
