package v1

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

// yearParam reads ?ano=; an absent value yields def.
func yearParam(c *gin.Context, def int) (int, error) {
	raw := strings.TrimSpace(c.Query("ano"))
	if raw == "" {
		return def, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return 0, fmt.Errorf("ano inválido: %q", raw)
	}
	return year, nil
}

// monthParam reads ?mes=YYYY-MM; empty is allowed.
func monthParam(c *gin.Context) (string, error) {
	raw := strings.TrimSpace(c.Query("mes"))
	if raw == "" {
		return "", nil
	}
	t, err := time.Parse(model.ReferenceMonthLayout, raw)
	if err != nil {
		return "", fmt.Errorf("mês inválido: %q (use AAAA-MM)", raw)
	}
	return model.ReferenceMonth(t), nil
}
