package gacha

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pedrolucas/crimson/internal/models"
)

// Form carries the raw field values of the create/edit screen before
// validation. Passives and abilities arrive as multiline text.
type Form struct {
	Name          string
	Title         string
	Rarity        models.Rarity
	Kind          models.Kind
	Description   string
	PassivesText  string
	AbilitiesText string
	DropRateText  string
}

// ValidationError is a pre-submission, field-specific problem. It is
// reported to the user and never sent to the server.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the form and builds the item to submit. Name must be
// non-blank and drop rate a positive number; list fields are derived
// with SplitLines.
func (f Form) Validate() (models.GachaItem, error) {
	if strings.TrimSpace(f.Name) == "" {
		return models.GachaItem{}, &ValidationError{Field: "nome", Message: "name is required"}
	}

	rate, err := strconv.ParseFloat(strings.TrimSpace(f.DropRateText), 64)
	if err != nil || rate <= 0 {
		return models.GachaItem{}, &ValidationError{Field: "taxa_drop", Message: "drop rate must be a positive number"}
	}

	return models.GachaItem{
		Name:        strings.TrimSpace(f.Name),
		Title:       strings.TrimSpace(f.Title),
		Rarity:      f.Rarity,
		Kind:        f.Kind,
		Description: strings.TrimSpace(f.Description),
		Passives:    SplitLines(f.PassivesText),
		Abilities:   SplitLines(f.AbilitiesText),
		DropRate:    rate,
	}, nil
}

// FormFromItem prefills an edit form from an existing record.
func FormFromItem(item models.GachaItem) Form {
	return Form{
		Name:          item.Name,
		Title:         item.Title,
		Rarity:        item.Rarity,
		Kind:          item.Kind,
		Description:   item.Description,
		PassivesText:  JoinLines(item.Passives),
		AbilitiesText: JoinLines(item.Abilities),
		DropRateText:  strconv.FormatFloat(item.DropRate, 'f', -1, 64),
	}
}
