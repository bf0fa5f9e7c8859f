package render

import "testing"

func TestOutputName(t *testing.T) {
	tests := []struct {
		source, kind, ext string
		want              string
	}{
		{"data/SW_EXPT_EFIA_TCT02_20160311.nc", "map", "png", "SW_EXPT_EFIA_TCT02_20160311_map.png"},
		{"/tmp/pass one (copy).csv", "components", "png", "pass_one_copy_components.png"},
		{"..csv", "map", "png", "pass_map.png"},
		{"", "map", "png", "pass_map.png"},
		{"a__b.csv", "map", "png", "a_b_map.png"},
	}
	for _, tt := range tests {
		if got := OutputName(tt.source, tt.kind, tt.ext); got != tt.want {
			t.Errorf("OutputName(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}
