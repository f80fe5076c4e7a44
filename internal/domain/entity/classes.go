package entity

import (
	"fmt"
	"image/color"
	"sort"
)

// BackgroundClassID идентификатор фонового класса на карте сегментации.
const BackgroundClassID = 0

// DefectClasses известные классы дефектов по идентификатору.
// Неизвестные id не считаются ошибкой и получают имя через DefectTypeName.
var DefectClasses = map[int]string{
	0: "background",
	1: "damaged",
	2: "missing_component",
	3: "open",
	4: "scratch",
	5: "stained",
}

// DefectColors цвета классов для внешнего рендера (сам рендер вне ядра).
var DefectColors = map[int]color.RGBA{
	0: {R: 64, G: 64, B: 64, A: 255},
	1: {R: 255, A: 255},
	2: {R: 255, G: 255, A: 255},
	3: {R: 255, B: 255, A: 255},
	4: {G: 255, B: 255, A: 255},
	5: {R: 128, B: 128, A: 255},
}

// DefectTypeName возвращает имя класса по id.
// Для неизвестных id возвращается generic-имя, чтобы карта с новыми
// классами не ломала разбор.
func DefectTypeName(classID int) string {
	if name, ok := DefectClasses[classID]; ok {
		return name
	}
	return fmt.Sprintf("class_%d", classID)
}

// SupportedClassNames возвращает имена известных классов по возрастанию id.
func SupportedClassNames() []string {
	ids := make([]int, 0, len(DefectClasses))
	for id := range DefectClasses {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, DefectClasses[id])
	}
	return names
}
