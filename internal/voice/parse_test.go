package voice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/voice"
)

func TestParse(t *testing.T) {
	tests := []struct {
		utterance string
		want      voice.Command
	}{
		{"two milk", voice.Command{Quantity: 2, ProductQuery: "milk"}},
		{"Two Milk", voice.Command{Quantity: 2, ProductQuery: "milk"}},
		{"milk", voice.Command{Quantity: 1, ProductQuery: "milk"}},
		{"5 coca cola", voice.Command{Quantity: 5, ProductQuery: "coca cola"}},
		{"twenty eggs", voice.Command{Quantity: 20, ProductQuery: "eggs"}},
		{"add milk", voice.Command{Quantity: 1, ProductQuery: "milk"}},
		{"add three milk", voice.Command{Quantity: 1, ProductQuery: "three milk"}},
		{"buy 2 bread", voice.Command{Quantity: 1, ProductQuery: "2 bread"}},
		{"three buy bread", voice.Command{Quantity: 3, ProductQuery: "bread"}},
		{"PURCHASE 12 sugar", voice.Command{Quantity: 1, ProductQuery: "12 sugar"}},
		{"12 purchase sugar", voice.Command{Quantity: 12, ProductQuery: "sugar"}},
		{"  get   rice  5kg ", voice.Command{Quantity: 1, ProductQuery: "rice 5kg"}},
		{"0 milk", voice.Command{Quantity: 1, ProductQuery: "0 milk"}},
		{"twentyone milk", voice.Command{Quantity: 1, ProductQuery: "twentyone milk"}},
		{"add", voice.Command{Quantity: 1, ProductQuery: "add"}},
		{"", voice.Command{Quantity: 1, ProductQuery: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			assert.Equal(t, tt.want, voice.Parse(tt.utterance))
		})
	}
}
