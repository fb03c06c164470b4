package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"pusula/internal/config"
	"pusula/internal/model"
	"pusula/internal/service/excel"
	sessionstore "pusula/internal/service/store"
	"pusula/internal/store"
)

const currentCSV = "Benzersiz_Kimlik;Ad;Başlangıç;Bitiş;Fiili_Başlangıç;Fiili_Bitiş;Süre;Toplam_Bolluk;Özet\n" +
	"1;Proje;1 Ocak 2024;30 Haziran 2024;;;180 g;0;Evet\n" +
	"2;Kazı;3 Mart 2024;6 Mart 2024;;;4 g;-2;Hayır\n" +
	"3;Mobilizasyon;2 Ocak 2024;10 Ocak 2024;2 Ocak 2024;10 Ocak 2024;8 g;0;Hayır\n"

const baselineCSV = "Benzersiz_Kimlik;Ad;Başlangıç;Bitiş;Süre;Toplam_Bolluk\n" +
	"2;Kazı;20 Şubat 2024;25 Şubat 2024;6 g;5\n" +
	"3;Mobilizasyon;2 Ocak 2024;10 Ocak 2024;8 g;3\n"

var fixedNow = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "pusula.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(config.DefaultConfig(), sessionstore.NewSessionStore(), st, t.TempDir())
	h.now = func() time.Time { return fixedNow }

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r, h
}

func do(r *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func upload(t *testing.T, r *gin.Engine, path, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()
	return do(r, http.MethodPost, path, &buf, mw.FormDataContentType())
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, w.Body.String())
	}
}

func TestEndpointsRequireCurrentSchedule(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, p := range []string{"/api/tasks", "/api/dashboard", "/api/timeline", "/api/insights", "/api/comparison"} {
		w := do(r, http.MethodGet, p, nil, "")
		if w.Code != http.StatusConflict {
			t.Errorf("GET %s = %d, want 409 body=%s", p, w.Code, w.Body.String())
		}
	}
	if w := do(r, http.MethodPost, "/api/export", nil, ""); w.Code != http.StatusConflict {
		t.Errorf("POST /api/export = %d, want 409", w.Code)
	}
}

func TestUploadMissingIdentifier(t *testing.T) {
	r, _ := newTestRouter(t)

	w := upload(t, r, "/api/schedules/current", "eksik.csv", "Ad;Başlangıç\nKazı;1 Ocak 2024\n")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	decode(t, w, &resp)
	if resp["kind"] != "missing_identifier" || !strings.Contains(resp["error"], "Benzersiz_Kimlik") {
		t.Fatalf("unexpected body %v", resp)
	}

	var status StatusResponse
	decode(t, do(r, http.MethodGet, "/api/status", nil, ""), &status)
	if status.CurrentLoaded {
		t.Fatal("failed upload must not load a schedule")
	}
	if status.LastImport == nil || status.LastImport.Status != store.ImportFailed {
		t.Fatalf("last import = %+v", status.LastImport)
	}
}

func TestUploadRejectsUnsupportedFormat(t *testing.T) {
	r, _ := newTestRouter(t)
	w := upload(t, r, "/api/schedules/current", "program.pdf", "x")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/schedules/current", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing file status = %d", w.Code)
	}
}

func TestScheduleWorkflow(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := upload(t, r, "/api/schedules/current", "guncel.csv", currentCSV); w.Code != http.StatusOK {
		t.Fatalf("upload current = %d body=%s", w.Code, w.Body.String())
	}

	// 没有基线时比较返回 409
	if w := do(r, http.MethodGet, "/api/comparison", nil, ""); w.Code != http.StatusConflict {
		t.Fatalf("comparison without baseline = %d", w.Code)
	}

	var tasks struct {
		Total int           `json:"total"`
		Items []*model.Task `json:"items"`
	}
	decode(t, do(r, http.MethodGet, "/api/tasks?status=critical", nil, ""), &tasks)
	if tasks.Total != 2 {
		t.Fatalf("critical tasks = %d, want 2", tasks.Total)
	}
	if w := do(r, http.MethodGet, "/api/tasks?status=bogus", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status filter = %d", w.Code)
	}

	var dash struct {
		StartRisks []*model.Task `json:"startRisks"`
		Progress   float64       `json:"progress"`
	}
	decode(t, do(r, http.MethodGet, "/api/dashboard", nil, ""), &dash)
	if len(dash.StartRisks) != 1 || dash.StartRisks[0].ID != "2" {
		t.Fatalf("start risks = %+v", dash.StartRisks)
	}

	if w := upload(t, r, "/api/schedules/baseline", "base.csv", baselineCSV); w.Code != http.StatusOK {
		t.Fatalf("upload baseline = %d body=%s", w.Code, w.Body.String())
	}

	var cmp model.Comparison
	decode(t, do(r, http.MethodGet, "/api/comparison", nil, ""), &cmp)
	if cmp.NoMatches || cmp.Matched != 2 {
		t.Fatalf("comparison = %+v", cmp)
	}
	if len(cmp.Views.StartDelayed) != 1 || cmp.Views.StartDelayed[0].ID != "2" {
		t.Fatalf("start delayed = %+v", cmp.Views.StartDelayed)
	}
	if len(cmp.Views.NewlyCritical) != 1 {
		t.Fatalf("newly critical = %+v", cmp.Views.NewlyCritical)
	}

	if w := do(r, http.MethodGet, "/api/comparison?limit=abc", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid limit = %d", w.Code)
	}
	decode(t, do(r, http.MethodGet, "/api/comparison?all=true", nil, ""), &cmp)
	if len(cmp.Rows) != 2 {
		t.Fatalf("rows = %d", len(cmp.Rows))
	}

	var ins struct {
		Sections []struct {
			Kind string `json:"kind"`
		} `json:"sections"`
	}
	decode(t, do(r, http.MethodGet, "/api/insights", nil, ""), &ins)
	if ins.Sections[len(ins.Sections)-1].Kind != "comparison" {
		t.Fatalf("insights = %+v", ins)
	}

	var logs struct {
		Items []store.ImportLog `json:"items"`
	}
	decode(t, do(r, http.MethodGet, "/api/imports", nil, ""), &logs)
	if len(logs.Items) != 2 || logs.Items[0].Role != model.RoleBaseline {
		t.Fatalf("imports = %+v", logs.Items)
	}

	if w := do(r, http.MethodDelete, "/api/schedules/baseline", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("delete baseline = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/comparison", nil, ""); w.Code != http.StatusConflict {
		t.Fatalf("comparison after delete = %d", w.Code)
	}
}

func TestExportWorkbook(t *testing.T) {
	r, h := newTestRouter(t)
	archive := t.TempDir()
	h.ArchiveExportsTo(archive)
	upload(t, r, "/api/schedules/current", "guncel.csv", currentCSV)
	upload(t, r, "/api/schedules/baseline", "base.csv", baselineCSV)

	w := do(r, http.MethodPost, "/api/export", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d body=%s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "pusula-rapor-2024-03-01.xlsx") {
		t.Fatalf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex(excel.SheetComparison); idx < 0 {
		t.Fatalf("missing comparison sheet: %v", f.GetSheetList())
	}
	if _, err := os.Stat(filepath.Join(archive, "pusula-rapor-2024-03-01.xlsx")); err != nil {
		t.Fatalf("export not archived: %v", err)
	}
}

func TestStreamUpload(t *testing.T) {
	r, h := newTestRouter(t)

	w := upload(t, r, "/api/schedules/current?stream=1", "guncel.csv", currentCSV)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"type":"start"`) || !strings.Contains(body, `"type":"done"`) {
		t.Fatalf("unexpected stream %s", body)
	}
	if h.session.Snapshot().Current == nil {
		t.Fatal("streamed import should load the schedule")
	}

	entries, _ := os.ReadDir(h.uploadDir)
	if len(entries) != 0 {
		t.Fatalf("upload not cleaned up: %d files", len(entries))
	}
}

func TestContentDisposition(t *testing.T) {
	got := contentDisposition("rapor-Şubat.xlsx")
	want := `attachment; filename="rapor-Şubat.xlsx"; filename*=UTF-8''rapor-%C5%9Eubat.xlsx`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}
