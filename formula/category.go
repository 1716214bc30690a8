// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package formula

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

// NormalizeCategory maps a free-form category onto the marketplace's
// spelling: known categories match case-insensitively, anything else is
// title-cased, and blank becomes "Other".
func NormalizeCategory(category string) string {
	category = strings.Join(strings.Fields(category), " ")
	if category == "" {
		return models.CategoryOther
	}
	for _, known := range models.Categories {
		if strings.EqualFold(known, category) {
			return known
		}
	}
	return cases.Title(language.English).String(category)
}
