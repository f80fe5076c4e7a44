package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefectTypeName(t *testing.T) {
	require.Equal(t, "background", DefectTypeName(0))
	require.Equal(t, "open", DefectTypeName(3))
	require.Equal(t, "stained", DefectTypeName(5))

	// Неизвестный класс получает generic-имя, а не ошибку.
	require.Equal(t, "class_9", DefectTypeName(9))
}

func TestSupportedClassNames(t *testing.T) {
	names := SupportedClassNames()

	require.Equal(t, []string{
		"background",
		"damaged",
		"missing_component",
		"open",
		"scratch",
		"stained",
	}, names)
}

func TestClassMapAt(t *testing.T) {
	classMap := &ClassMap{
		Width:  3,
		Height: 2,
		Pixels: []uint8{0, 1, 2, 3, 4, 5},
	}

	require.Equal(t, uint8(0), classMap.At(0, 0))
	require.Equal(t, uint8(2), classMap.At(2, 0))
	require.Equal(t, uint8(3), classMap.At(0, 1))
	require.Equal(t, uint8(5), classMap.At(2, 1))
	require.Equal(t, 6, classMap.TotalPixels())
}
