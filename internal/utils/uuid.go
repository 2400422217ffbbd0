package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UUIDGenerator produces time-ordered UUIDv7 strings.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// ActionIDGenerator builds queued action ids of the form
// <KIND>_<unix millis>_<random suffix>. The value carries no ordering
// guarantee; queue order is kept by position.
type ActionIDGenerator struct {
	now func() time.Time
}

func NewActionIDGenerator() *ActionIDGenerator {
	return &ActionIDGenerator{now: time.Now}
}

func (g *ActionIDGenerator) Generate(kind string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%d_%s", kind, g.now().UnixMilli(), suffix)
}
