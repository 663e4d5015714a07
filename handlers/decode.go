package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-playground/form"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg"
)

// maxBodyBytes, form gövdeleri küçüktür.
const maxBodyBytes = 64 << 10

// formDecoder, urlencoded form gövdelerini struct'a çevirir ("form" tag'leri).
// Thread-safe; tek instance paylaşılır.
var formDecoder = form.NewDecoder()

// decodeEmployeeForm, gövdeyi Content-Type'a göre JSON veya urlencoded form olarak okur.
func decodeEmployeeForm(w http.ResponseWriter, r *http.Request) (models.EmployeeForm, error) {
	var f models.EmployeeForm
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(maxBodyBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return f, fmt.Errorf("%w: invalid form body", pkg.ErrBadRequest)
		}
		if err := formDecoder.Decode(&f, r.PostForm); err != nil {
			return f, fmt.Errorf("%w: invalid form body", pkg.ErrBadRequest)
		}
		// Form tarafında da "phoneNumber" kabul edilir.
		if f.Phone == "" {
			f.Phone = r.PostForm.Get("phoneNumber")
		}

	default:
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			return f, fmt.Errorf("%w: invalid request body", pkg.ErrBadRequest)
		}
	}
	return f, nil
}

// decodeJSON, küçük JSON gövdeleri için.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", pkg.ErrBadRequest)
	}
	return nil
}

// pathID, {id} path parametresini pozitif int64 olarak okur.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid employee id", pkg.ErrBadRequest)
	}
	return id, nil
}

// queryPage, ?page= değerini okur; yoksa veya geçersizse 1.
func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// queryViewMode, ?viewMode= değerini okur; yoksa fallback.
// "table" eski istemcilerden gelir ve kart görünümü demektir.
func queryViewMode(r *http.Request, fallback models.ViewMode) (models.ViewMode, error) {
	raw := r.URL.Query().Get("viewMode")
	if raw == "" {
		return fallback, nil
	}
	mode, ok := models.ParseViewMode(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown view mode %q", pkg.ErrBadRequest, raw)
	}
	return mode, nil
}
