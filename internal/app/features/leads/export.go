// internal/app/features/leads/export.go
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dalemusser/admitflow/internal/app/features/shared"
	"github.com/dalemusser/admitflow/internal/app/query/pipeline"
	"github.com/dalemusser/admitflow/internal/app/query/projector"
	leadstore "github.com/dalemusser/admitflow/internal/app/store/leads"
	"github.com/dalemusser/admitflow/internal/app/system/csvutil"
	"github.com/dalemusser/admitflow/internal/app/system/paging"
	"github.com/dalemusser/admitflow/internal/app/system/respond"
	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/dalemusser/admitflow/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleExport streams a CSV of the filtered leads, capped at the
// synchronous download limit.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	var req shared.ListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	params := req.Params(sc, paging.Page{PageNum: 1, Limit: 1}, false)
	store := leadstore.New(h.DB)

	total, err := store.CountMatching(ctx, params)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	if err := csvutil.CheckDownloadSize(total); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}

	data, err := h.buildCSV(ctx, params)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)
	_, _ = w.Write(data)
}

// HandleExportAsync runs the export as a background task, uploads the
// CSV to object storage, and returns the export id immediately.
func (h *Handler) HandleExportAsync(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	var req shared.ListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	exportID := uuid.NewString()
	path := filepath.ToSlash(filepath.Join("exports", sc.CollegeID.Hex(), exportID+".csv"))
	params := req.Params(sc, paging.Page{PageNum: 1, Limit: 1}, false)

	h.Tasks.Dispatch("lead-export", func(ctx context.Context) error {
		data, err := h.buildCSV(ctx, params)
		if err != nil {
			return fmt.Errorf("build export %s: %w", exportID, err)
		}
		opts := &storage.PutOptions{ContentType: "text/csv"}
		if err := h.Storage.Put(ctx, path, bytes.NewReader(data), opts); err != nil {
			return fmt.Errorf("upload export %s: %w", exportID, err)
		}
		h.Log.Info("export uploaded",
			zap.String("export_id", exportID),
			zap.String("path", path))
		return nil
	})

	respond.OK(w, map[string]string{"export_id": exportID, "path": path}, "export started")
}

// ServeExportURL presigns a download link for a finished export.
func (h *Handler) ServeExportURL(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	exportID := r.URL.Query().Get("export_id")
	if exportID == "" {
		respond.BadRequest(w, "export_id is required")
		return
	}
	path := filepath.ToSlash(filepath.Join("exports", sc.CollegeID.Hex(), exportID+".csv"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	url, err := h.Storage.PresignedURL(ctx, path, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: `attachment; filename="leads.csv"`,
	})
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, map[string]string{"url": url}, "")
}

// buildCSV runs the unpaginated lead pipeline and renders the rows.
func (h *Handler) buildCSV(ctx context.Context, params pipeline.Params) ([]byte, error) {
	params.Skip, params.Limit, params.WithTotal = 0, 0, false

	docs, err := leadstore.New(h.DB).List(ctx, params)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = projector.CSVRecord(projector.ProjectLead(d))
	}
	return csvutil.Write(projector.CSVHeader(), rows)
}
