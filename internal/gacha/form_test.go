package gacha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrolucas/crimson/internal/models"
)

func validForm() Form {
	return Form{
		Name:          "Wriothesley",
		Title:         "Duke of the Fortress",
		Rarity:        models.RarityLendario,
		Kind:          models.KindPersonagem,
		PassivesText:  " Heal \n\n Shield \n",
		AbilitiesText: "Icy Punch",
		DropRateText:  "0.6",
	}
}

func TestFormValidate(t *testing.T) {
	item, err := validForm().Validate()
	require.NoError(t, err)

	assert.Equal(t, "Wriothesley", item.Name)
	assert.Equal(t, []string{"Heal", "Shield"}, item.Passives)
	assert.Equal(t, []string{"Icy Punch"}, item.Abilities)
	assert.Equal(t, 0.6, item.DropRate)
}

func TestFormValidateRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Form)
		wantField string
	}{
		{"blank_name", func(f *Form) { f.Name = "   " }, "nome"},
		{"zero_drop_rate", func(f *Form) { f.DropRateText = "0" }, "taxa_drop"},
		{"negative_drop_rate", func(f *Form) { f.DropRateText = "-1" }, "taxa_drop"},
		{"non_numeric_drop_rate", func(f *Form) { f.DropRateText = "lots" }, "taxa_drop"},
		{"empty_drop_rate", func(f *Form) { f.DropRateText = "" }, "taxa_drop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			_, err := form.Validate()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestFormFromItemRoundTrip(t *testing.T) {
	item := models.GachaItem{
		Name:      "Poco",
		Rarity:    models.RarityRaro,
		Kind:      models.KindItem,
		Passives:  []string{"a", "b"},
		Abilities: []string{"c"},
		DropRate:  1.25,
	}

	got, err := FormFromItem(item).Validate()
	require.NoError(t, err)
	assert.Equal(t, item, got)
}
