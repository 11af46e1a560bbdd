package detector

import (
	"testing"

	lingua "github.com/pemistahl/lingua-go"
)

func TestIsArabic_ArabicVerse(t *testing.T) {
	d := New()

	text := "قفا نبك من ذكرى حبيب ومنزل بسقط اللوى بين الدخول فحومل"
	if !d.IsArabic(text) {
		t.Error("expected Arabic verse to detect as Arabic")
	}
}

func TestIsArabic_DiacritizedVerse(t *testing.T) {
	d := New()

	text := "قِفَا نَبْكِ مِنْ ذِكْرَى حَبِيبٍ وَمَنْزِلِ بِسِقْطِ اللِّوَى بَيْنَ الدَّخُولِ فَحَوْمَلِ"
	if !d.IsArabic(text) {
		t.Error("expected diacritized Arabic verse to detect as Arabic")
	}
}

func TestIsArabic_EnglishText(t *testing.T) {
	d := New()

	text := "I could not fix the verse, but here is an explanation of the meter instead."
	if d.IsArabic(text) {
		t.Error("expected English text to be rejected")
	}
}

func TestIsArabic_ShortTextPasses(t *testing.T) {
	d := New()

	if !d.IsArabic("قفا نبك") {
		t.Error("expected short text to pass without detection")
	}
	if !d.IsArabic("") {
		t.Error("expected empty text to pass")
	}
}

func TestDetect_EmptyText(t *testing.T) {
	d := New()

	if lang, ok := d.Detect(""); ok || lang != lingua.Unknown {
		t.Errorf("expected Unknown for empty text, got %v (%v)", lang, ok)
	}
}
