package pricing

import "testing"

func TestPrice(t *testing.T) {
	tests := []struct {
		name        string
		base        float64
		sessionType string
		want        int
	}{
		{"individual unchanged", 200.00, "Individual (50 min)", 200},
		{"couple x1.5", 200.00, "Casal - 50min", 300},
		{"couple truncates", 33.33, "Casal", 49},
		{"package x3.5", 100.00, "Pacote 4 sessões", 350},
		{"package truncates", 33.33, "Pacote", 116},
		{"unknown label unchanged", 150.50, "Avulsa", 150},
		{"base truncates", 99.99, "Individual", 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Price(tt.base, tt.sessionType); got != tt.want {
				t.Fatalf("Price(%v, %q) = %d, want %d", tt.base, tt.sessionType, got, tt.want)
			}
		})
	}
}
