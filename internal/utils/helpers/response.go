package helpers

import (
	"encoding/json"
	"net/http"

	"portfolio/internal/models"
)

type Response struct {
	Success    bool               `json:"success"`
	Data       interface{}        `json:"data,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Message    string             `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Response{Success: status < 400, Data: data})
}

// JSONPage — успешный ответ со списком и метаданными пагинации.
func JSONPage(w http.ResponseWriter, status int, data interface{}, p models.Pagination) {
	write(w, status, Response{Success: true, Data: data, Pagination: &p})
}

func Message(w http.ResponseWriter, status int, msg string) {
	write(w, status, Response{Success: status < 400, Message: msg})
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	write(w, status, Response{Success: false, Message: errMsg})
}

// Raw сериализует v как есть, без конверта Response.
func Raw(w http.ResponseWriter, status int, v interface{}) {
	write(w, status, v)
}

func write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}
