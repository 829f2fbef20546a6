package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/termblocks/checklist/internal/logging"
	"github.com/termblocks/checklist/internal/server/models"
)

// ChecklistService is the set of checklist operations exposed over HTTP.
type ChecklistService interface {
	MaxUploadSize() int64
	List(ctx context.Context, ownerID *int64) ([]*models.Checklist, error)
	Get(ctx context.Context, id int64) (*models.Checklist, error)
	Create(ctx context.Context, draft models.ChecklistDraft) (*models.Checklist, error)
	Replace(ctx context.Context, id int64, draft models.ChecklistDraft) (*models.Checklist, error)
	Delete(ctx context.Context, id int64) error
	Publish(ctx context.Context, id int64) (string, error)
	Unpublish(ctx context.Context, id int64) error
	Clone(ctx context.Context, id int64) (*models.Checklist, error)
	GetPublic(ctx context.Context, token string) (*models.Checklist, error)
	UploadFile(ctx context.Context, itemID int64, filename string, content []byte) (*models.FileUpload, error)
	DeleteFile(ctx context.Context, id int64) error
	ServePublicFile(ctx context.Context, id int64) (*models.FileUpload, []byte, error)
}

type UserService interface {
	Declare(ctx context.Context, username string) (*models.User, error)
}

// uploadOverhead is the allowance for multipart framing on top of the
// largest accepted file.
const uploadOverhead = 1 << 20

const banner = "Termblocks Checklist Builder API"

// ChecklistHandler serves checklist, upload and public endpoints.
type ChecklistHandler struct {
	Checklists ChecklistService
	Logger     logging.Logger
}

type UserHandler struct {
	Users  UserService
	Logger logging.Logger
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errMalformed, name, raw)
	}
	return id, nil
}

func decodeDraft(r *http.Request) (models.ChecklistDraft, error) {
	var d models.ChecklistDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		return d, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return d, nil
}

func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	var owner *int64
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(r.Context(), w, h.Logger, fmt.Errorf("%w: invalid owner_id %q", errMalformed, raw))
			return
		}
		owner = &id
	}

	list, err := h.Checklists.List(r.Context(), owner)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, list)
}

func (h *ChecklistHandler) Create(w http.ResponseWriter, r *http.Request) {
	draft, err := decodeDraft(r)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}

	c, err := h.Checklists.Create(r.Context(), draft)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, c)
}

func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}

	c, err := h.Checklists.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, c)
}

func (h *ChecklistHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	draft, err := decodeDraft(r)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}

	c, err := h.Checklists.Replace(r.Context(), id, draft)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, c)
}

func (h *ChecklistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	if err := h.Checklists.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, okBody{OK: true})
}

func (h *ChecklistHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}

	u, err := h.Checklists.Publish(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, map[string]string{"public_url": u})
}

func (h *ChecklistHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	if err := h.Checklists.Unpublish(r.Context(), id); err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, okBody{OK: true})
}

func (h *ChecklistHandler) Clone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}

	c, err := h.Checklists.Clone(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, c)
}

func (h *ChecklistHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	c, err := h.Checklists.GetPublic(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, c)
}

// Upload reads the multipart field "file" and attaches it to the item.
func (h *ChecklistHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Checklists.MaxUploadSize()+uploadOverhead)

	f, hdr, err := r.FormFile("file")
	if err != nil {
		if !isMaxBytes(err) {
			err = fmt.Errorf("%w: %v", errMalformed, err)
		}
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		writeError(r.Context(), w, h.Logger, fmt.Errorf("read upload: %w", err))
		return
	}

	u, err := h.Checklists.UploadFile(r.Context(), id, hdr.Filename, content)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, u)
}

func (h *ChecklistHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	if err := h.Checklists.DeleteFile(r.Context(), id); err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, okBody{OK: true})
}

// ServeUpload streams a file of a public checklist as an attachment.
func (h *ChecklistHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}

	u, data, err := h.Checklists.ServePublicFile(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}

	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": u.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Warn(r.Context(), "write file", "upload_id", id, "error", err)
	}
}

// Declare registers a username and returns its stored hash.
func (h *UserHandler) Declare(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("username"))

	u, err := h.Users.Declare(r.Context(), name)
	if err != nil {
		writeError(r.Context(), w, h.Logger, err)
		return
	}
	writeJSON(r.Context(), w, h.Logger, http.StatusOK, u)
}
