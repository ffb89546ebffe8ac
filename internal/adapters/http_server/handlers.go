package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

// FallbackHeader lists the sources whose data was replaced by samples, comma separated.
const FallbackHeader = "X-Reviews-Fallback"

type Handlers struct {
	Q        *app.QueryService
	C        *app.CommandService
	validate *validator.Validate
}

func NewHandlers(q *app.QueryService, c *app.CommandService) *Handlers {
	return &Handlers{Q: q, C: c, validate: validator.New(validator.WithRequiredStructEnabled())}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type reviewsResponse struct {
	Reviews []domain.NormalizedReview `json:"reviews"`
}

type googleResponse struct {
	Reviews []domain.GoogleReview `json:"reviews"`
}

type saveSelectionRequest struct {
	ListingName       string  `json:"listingName" validate:"required"`
	SelectedReviewIDs []int64 `json:"selectedReviewIds" validate:"required"`
}

type selectionResponse struct {
	ReviewIDs []int64 `json:"reviewIds"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	reviews := chi.NewRouter()
	reviews.Get("/hostaway", h.hostawayReviews)
	reviews.Post("/hostaway/refresh", h.refreshHostaway)
	reviews.Get("/all", h.allReviews)
	reviews.Get("/google", h.googleReviews)
	reviews.Post("/selected", h.saveSelection)
	reviews.Get("/selected/{listingName}", h.getSelection)
	reviews.Get("/search", h.search)
	reviews.Get("/stats", h.stats)
	reviews.Get("/featured/{listingName}", h.featured)

	// The dashboard calls the API under /api; both prefixes serve the same routes.
	s.mux.Mount("/reviews", reviews)
	s.mux.Mount("/api/reviews", reviews)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeFailure maps service errors: bad input is the caller's fault, anything else is ours.
func writeFailure(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	log.Error().Err(err).Str("op", op).Msg("request failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Failed to "+op+": "+err.Error())
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body, nil
}

// writeJSON sends v with a weak ETag and answers 304 when the client already has it.
func writeJSON(w http.ResponseWriter, r *http.Request, op string, v any) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("op", op).Msg("failed to write body")
	}
}

func markFallback(w http.ResponseWriter, sources []domain.Channel) {
	if len(sources) == 0 {
		return
	}
	parts := make([]string, len(sources))
	for i, c := range sources {
		parts[i] = string(c)
	}
	w.Header().Set(FallbackHeader, strings.Join(parts, ","))
}

func (h *Handlers) hostawayReviews(w http.ResponseWriter, r *http.Request) {
	res, err := h.Q.HostawayReviews(r.Context())
	if err != nil {
		writeFailure(w, "fetch reviews", err)
		return
	}
	markFallback(w, res.Fallback)
	writeJSON(w, r, "fetch reviews", reviewsResponse{Reviews: res.Reviews})
}

func (h *Handlers) refreshHostaway(w http.ResponseWriter, r *http.Request) {
	res, err := h.C.RefreshPrimary(r.Context())
	if err != nil {
		writeFailure(w, "refresh reviews", err)
		return
	}
	markFallback(w, res.Fallback)
	writeJSON(w, r, "refresh reviews", reviewsResponse{Reviews: res.Reviews})
}

func (h *Handlers) allReviews(w http.ResponseWriter, r *http.Request) {
	res, err := h.Q.AllReviews(r.Context())
	if err != nil {
		writeFailure(w, "fetch all reviews", err)
		return
	}
	markFallback(w, res.Fallback)
	writeJSON(w, r, "fetch all reviews", reviewsResponse{Reviews: res.Reviews})
}

func (h *Handlers) googleReviews(w http.ResponseWriter, r *http.Request) {
	res, err := h.Q.GoogleReviews(r.Context(), r.URL.Query().Get("listingId"))
	if err != nil {
		writeFailure(w, "fetch Google reviews", err)
		return
	}
	if res.Fallback {
		markFallback(w, []domain.Channel{domain.ChannelGoogle})
	}
	writeJSON(w, r, "fetch Google reviews", googleResponse{Reviews: res.Reviews})
}

func (h *Handlers) saveSelection(w http.ResponseWriter, r *http.Request) {
	var req saveSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be JSON with listingName and selectedReviewIds")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	if err := h.C.SaveSelection(r.Context(), req.ListingName, req.SelectedReviewIDs); err != nil {
		writeFailure(w, "save selected reviews", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"success":true}`))
}

// listingParam returns the listing segment decoded exactly once. chi matches on the
// decoded Path unless the URL carries a RawPath (e.g. an escaped "/"), in which case
// the segment is still escaped.
func listingParam(r *http.Request) (string, error) {
	v := chi.URLParam(r, "listingName")
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func (h *Handlers) getSelection(w http.ResponseWriter, r *http.Request) {
	listing, err := listingParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid listing name", err.Error())
		return
	}
	ids, err := h.Q.Selection(r.Context(), listing)
	if err != nil {
		writeFailure(w, "fetch selected reviews", err)
		return
	}
	writeJSON(w, r, "fetch selected reviews", selectionResponse{ReviewIDs: ids})
}

func criteriaFromQuery(q url.Values) (domain.Criteria, error) {
	c := domain.Criteria{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		Channel:   q.Get("channel"),
		Date:      q.Get("date"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	if rs := q.Get("rating"); rs != "" {
		v, err := strconv.ParseFloat(rs, 64)
		if err != nil {
			return domain.Criteria{}, errors.New("rating must be a number")
		}
		c.MinRating = &v
	}
	return c, nil
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}
	res, err := h.Q.Search(r.Context(), c)
	if err != nil {
		writeFailure(w, "search reviews", err)
		return
	}
	markFallback(w, res.Fallback)
	writeJSON(w, r, "search reviews", reviewsResponse{Reviews: res.Reviews})
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	st, fb, err := h.Q.Stats(r.Context())
	if err != nil {
		writeFailure(w, "compute stats", err)
		return
	}
	markFallback(w, fb)
	writeJSON(w, r, "compute stats", st)
}

func (h *Handlers) featured(w http.ResponseWriter, r *http.Request) {
	listing, err := listingParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid listing name", err.Error())
		return
	}
	res, err := h.Q.FeaturedReviews(r.Context(), listing, r.URL.Query().Get("tab"))
	if err != nil {
		writeFailure(w, "fetch featured reviews", err)
		return
	}
	markFallback(w, res.Fallback)
	writeJSON(w, r, "fetch featured reviews", reviewsResponse{Reviews: res.Reviews})
}
