// Package format re-emits a tune from its lossless tree under a set of
// spacing and layout options.
//
// Назначение: нормализация пробелов, порядка полей заголовка и ширины строк.
// Не делает: изменения музыкального смысла (ноты, длительности, тактовые черты
// остаются теми же токенами), IO.
// Зависимости: internal/parser (lossless дерево), internal/cst.
package format
