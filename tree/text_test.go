package tree

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Live  horses", "Live horses"},
		{"inline markup", "Of <i>Bos taurus</i> species", "Of Bos taurus species"},
		{"entities", "Fish &amp; crustaceans", "Fish & crustaceans"},
		{"block elements break words", "<div>Horses</div><div>Asses</div>", "Horses Asses"},
		{"line break", "Mules<br/>hinnies", "Mules hinnies"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
