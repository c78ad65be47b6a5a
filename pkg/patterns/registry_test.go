package patterns

import (
	"testing"
)

func TestRegistryInit(t *testing.T) {
	// Get should return a singleton registry
	r1 := Get()
	r2 := Get()

	if r1 != r2 {
		t.Error("Get() should return the same registry instance")
	}
}

func TestRegistryHasPatterns(t *testing.T) {
	r := Get()

	total := r.TotalPatterns()
	if total < 30 {
		t.Errorf("expected at least 30 patterns, got %d", total)
	}

	t.Logf("Registry loaded %d patterns", total)
}

func TestCategoryPatterns(t *testing.T) {
	r := Get()

	testCases := []struct {
		category    Category
		minPatterns int
	}{
		{CategoryPhoneNumbers, 4},
		{CategoryUPIIDs, 3},
		{CategoryBankAccounts, 4},
		{CategoryPhishingLinks, 5},
		{CategoryEmails, 1},
		{CategoryAmounts, 4},
		{CategoryOTPCodes, 2},
		{CategoryScamRule, 10},
	}

	for _, tc := range testCases {
		t.Run(string(tc.category), func(t *testing.T) {
			patterns := r.GetByCategory(tc.category)
			if len(patterns) < tc.minPatterns {
				t.Errorf("category %s: expected at least %d patterns, got %d",
					tc.category, tc.minPatterns, len(patterns))
			}
		})
	}
}

func TestMatchAny(t *testing.T) {
	r := Get()

	testCases := []struct {
		name       string
		text       string
		categories []Category
		wantMatch  bool
	}{
		{
			name:       "upi handle",
			text:       "send to fraudster@paytm right away",
			categories: []Category{CategoryUPIIDs},
			wantMatch:  true,
		},
		{
			name:       "mobile number",
			text:       "call me on 9876543210",
			categories: []Category{CategoryPhoneNumbers},
			wantMatch:  true,
		},
		{
			name:       "shortened link",
			text:       "open bit.ly/verify123 now",
			categories: []Category{CategoryPhishingLinks},
			wantMatch:  true,
		},
		{
			name:       "scam rule blocking",
			text:       "your account will be blocked today",
			categories: []Category{CategoryScamRule},
			wantMatch:  true,
		},
		{
			name:       "clean text",
			text:       "see you at the cafe tomorrow",
			categories: []Category{CategoryUPIIDs, CategoryPhishingLinks},
			wantMatch:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			match := r.MatchAny(tc.text, tc.categories...)
			if tc.wantMatch && match == nil {
				t.Errorf("expected a match for %q", tc.text)
			}
			if !tc.wantMatch && match != nil {
				t.Errorf("unexpected match %s for %q", match.Name, tc.text)
			}
		})
	}
}

func TestExtractAll(t *testing.T) {
	r := Get()

	text := "Transfer to fraud@ybl or fraud@ybl, IFSC SBIN0001234, call 9876543210"

	upis := r.ExtractAll(text, CategoryUPIIDs, 3)
	if !contains(upis, "fraud@ybl") {
		t.Errorf("expected fraud@ybl in %v", upis)
	}
	// Duplicates collapse into one entry.
	count := 0
	for _, v := range upis {
		if v == "fraud@ybl" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected deduplicated match, got %d copies", count)
	}

	banks := r.ExtractAll(text, CategoryBankAccounts, 3)
	if !contains(banks, "SBIN0001234") {
		t.Errorf("expected IFSC capture group in %v", banks)
	}

	phones := r.ExtractAll(text, CategoryPhoneNumbers, 3)
	if !contains(phones, "9876543210") {
		t.Errorf("expected phone number in %v", phones)
	}
}

func TestExtractAllMinLength(t *testing.T) {
	r := Get()

	// "a@b" style VPA is below the 3-char floor after trimming and must be dropped.
	got := r.ExtractAll("x@y", CategoryUPIIDs, 4)
	if len(got) != 0 {
		t.Errorf("expected short matches to be dropped, got %v", got)
	}
}

func TestKeywordCategories(t *testing.T) {
	cats := KeywordCategories()
	if len(cats) != 7 {
		t.Fatalf("expected 7 keyword categories, got %d", len(cats))
	}

	weights := map[string]int{
		KeywordUrgency:      15,
		KeywordThreats:      20,
		KeywordCredentials:  25,
		KeywordFinancial:    15,
		KeywordVerification: 10,
		KeywordRewards:      12,
		KeywordAuthority:    10,
	}
	for _, kc := range cats {
		want, ok := weights[kc.Name]
		if !ok {
			t.Errorf("unexpected category %s", kc.Name)
			continue
		}
		if kc.Weight != want {
			t.Errorf("category %s: weight %d, want %d", kc.Name, kc.Weight, want)
		}
		if len(kc.Keywords) == 0 {
			t.Errorf("category %s has no keywords", kc.Name)
		}
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
