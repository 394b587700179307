package usecase

import (
	"testing"
)

func TestExtractScreenSize(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		want  int
		ok    bool
	}{
		{
			name:  "diagonal with inch quote",
			title: `Телевизор Samsung 55" QLED`,
			want:  55,
			ok:    true,
		},
		{
			name:  "diagonal without marker",
			title: "Телевизор LG 43 OLED",
			want:  43,
			ok:    true,
		},
		{
			name:  "diagonal with дюйм marker",
			title: "Телевизор Horizont 32 дюйма",
			want:  32,
			ok:    true,
		},
		{
			name:  "first number wins over model number",
			title: `Телевизор Samsung 50" UE50AU7100`,
			want:  50,
			ok:    true,
		},
		{
			name:  "model number first is not disambiguated",
			title: "Телевизор Philips 4K 55PUS7608",
			want:  4,
			ok:    true,
		},
		{
			name:  "no digits at all",
			title: "Телевизор Витязь",
			ok:    false,
		},
		{
			name:  "empty title",
			title: "",
			ok:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractScreenSize(tc.title)
			if ok != tc.ok {
				t.Fatalf("ExtractScreenSize(%q) ok = %v, want %v", tc.title, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("ExtractScreenSize(%q) = %d, want %d", tc.title, got, tc.want)
			}
		})
	}
}

func TestExtractBrand(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		want  string
		ok    bool
	}{
		{
			name:  "latin brand after marker",
			title: `Телевизор Samsung 55" QLED`,
			want:  "Samsung",
			ok:    true,
		},
		{
			name:  "cyrillic brand",
			title: "Телевизор Витязь 32LH0201",
			want:  "Витязь",
			ok:    true,
		},
		{
			name:  "marker is case-insensitive",
			title: "телевизор LG 43UQ75006LF",
			want:  "LG",
			ok:    true,
		},
		{
			name:  "numeric tokens before the brand are skipped",
			title: `Телевизор 55" Samsung QLED`,
			want:  "Samsung",
			ok:    true,
		},
		{
			name:  "trailing quotes are stripped",
			title: `Телевизор Samsung" 55`,
			want:  "Samsung",
			ok:    true,
		},
		{
			name:  "marker absent",
			title: "Монитор Dell 27",
			ok:    false,
		},
		{
			name:  "nothing qualifying after marker",
			title: `Телевизор 55" 4000`,
			ok:    false,
		},
		{
			name:  "empty title",
			title: "",
			ok:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractBrand(tc.title)
			if ok != tc.ok {
				t.Fatalf("ExtractBrand(%q) ok = %v, want %v", tc.title, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("ExtractBrand(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}
