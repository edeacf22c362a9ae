// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Category is one of the fixed topical board tags.
type Category string

// Board categories. The set is fixed: there is no admin UI for adding
// boards, and the backend schema constrains posts to these values.
const (
	CategoryNews       Category = "news"
	CategorySermon     Category = "sermon"
	CategoryElementary Category = "elementary"
	CategoryYouth      Category = "youth"
	CategoryYoungAdult Category = "young-adult"
	CategoryAdult      Category = "adult"
)

// categories lists all boards in display order.
var categories = []Category{
	CategoryNews,
	CategorySermon,
	CategoryElementary,
	CategoryYouth,
	CategoryYoungAdult,
	CategoryAdult,
}

// categoryNamesKo maps category codes to their Korean board names.
var categoryNamesKo = map[Category]string{
	CategoryNews:       "교회소식",
	CategorySermon:     "설교말씀",
	CategoryElementary: "유초등부",
	CategoryYouth:      "중고등부",
	CategoryYoungAdult: "청년부",
	CategoryAdult:      "장년부",
}

// categoryNamesEn maps category codes to their English board names.
var categoryNamesEn = map[Category]string{
	CategoryNews:       "Church News",
	CategorySermon:     "Sermons",
	CategoryElementary: "Elementary",
	CategoryYouth:      "Youth",
	CategoryYoungAdult: "Young Adults",
	CategoryAdult:      "Adults",
}

// Categories returns all board categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory returns the category for a URL code, or false if the
// code is not one of the fixed boards.
func ParseCategory(code string) (Category, bool) {
	c := Category(code)
	return c, c.Valid()
}

// Valid reports whether the category belongs to the fixed enumeration.
func (c Category) Valid() bool {
	_, ok := categoryNamesKo[c]
	return ok
}

// String returns the URL code of the category.
func (c Category) String() string {
	return string(c)
}

// Name returns the board name of the category for the given language.
// Unknown languages fall back to Korean, the site's primary language.
func (c Category) Name(lang string) string {
	if lang == "en" {
		if name, ok := categoryNamesEn[c]; ok {
			return name
		}
	}
	return categoryNamesKo[c]
}
