package views

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported dashboard languages. The first one is the fallback.
var supported = []language.Tag{language.English, language.Indonesian}

var matcher = language.NewMatcher(supported)

// Message keys are the English texts.
const (
	msgTitle              = "Air Quality Dashboard, Aotizhongxin District, Beijing"
	msgStartDate          = "Start date"
	msgEndDate            = "End date"
	msgApply              = "Apply"
	msgLanguage           = "Language"
	msgDaily              = "Daily average PM2.5"
	msgTotalDays          = "Total days"
	msgAveragePM25        = "Average PM2.5"
	msgPeakDay            = "Peak day"
	msgMonthly            = "Monthly average PM2.5"
	msgMonthlyChartTitle  = "Average PM2.5 per month"
	msgMonthlyYears       = "Monthly groups combine %d years of data."
	msgUnit               = "Average PM2.5 (µg/m³)"
	msgMonth              = "Month"
	msgDate               = "Date"
	msgCorrelationHeading = "Correlation between wind speed and PM2.5"
	msgCorrelation        = "The correlation between wind speed and PM2.5 is: %s"
	msgCorrelationPairs   = "Computed from %d hourly readings with both values present."
	msgUndefined          = "undefined (%s)"
	msgFewPairs           = "fewer than two readings with both values"
	msgConstant           = "wind speed or PM2.5 does not vary"
	msgConclusion         = "Conclusion"
	msgConclusion1        = "Average PM2.5 fluctuates significantly over the analysed period."
	msgConclusion2        = "Months with higher rainfall tend to show lower PM2.5 levels."
	msgConclusion3        = "There is a negative correlation between wind speed and PM2.5, suggesting that stronger wind helps reduce air pollution."
	msgNoData             = "No data"
	msgNoReadings         = "No readings in the selected range."
	msgNotAvailable       = "n/a"
	msgDownloadCSV        = "Download daily CSV"
	msgDownloadXLSX       = "Download Excel report"
	msgRange              = "Range"
	msgReadings           = "Readings"
	msgObservedDays       = "Days with data"
	msgCaption            = "Copyright © Hoel.id 2025"
)

func init() {
	id := language.Indonesian
	for key, text := range map[string]string{
		msgTitle:              "Dashboard Kualitas Udara di Distrik Aotizhongxin Beijing",
		msgStartDate:          "Tanggal Mulai",
		msgEndDate:            "Tanggal Selesai",
		msgApply:              "Terapkan",
		msgLanguage:           "Bahasa",
		msgDaily:              "Rata-rata PM2.5 Harian",
		msgTotalDays:          "Total Hari",
		msgAveragePM25:        "Rata-rata PM2.5",
		msgPeakDay:            "Hari Puncak",
		msgMonthly:            "Rata-rata PM2.5 Bulanan",
		msgMonthlyChartTitle:  "Rata-rata PM2.5 per Bulan",
		msgMonthlyYears:       "Kelompok bulanan menggabungkan data dari %d tahun.",
		msgUnit:               "Rata-rata PM2.5 (µg/m³)",
		msgMonth:              "Bulan",
		msgDate:               "Tanggal",
		msgCorrelationHeading: "Korelasi antara Kecepatan Angin dan PM2.5",
		msgCorrelation:        "Korelasi antara kecepatan angin dan PM2.5 adalah: %s",
		msgCorrelationPairs:   "Dihitung dari %d data per jam yang memiliki kedua nilai.",
		msgUndefined:          "tidak terdefinisi (%s)",
		msgFewPairs:           "kurang dari dua data dengan kedua nilai",
		msgConstant:           "kecepatan angin atau PM2.5 tidak bervariasi",
		msgConclusion:         "Kesimpulan",
		msgConclusion1:        "Rata-rata PM2.5 menunjukkan fluktuasi yang signifikan selama periode yang dianalisis.",
		msgConclusion2:        "Bulan-bulan dengan curah hujan yang lebih tinggi cenderung menunjukkan tingkat PM2.5 yang lebih rendah.",
		msgConclusion3:        "Terdapat korelasi negatif antara kecepatan angin dan tingkat PM2.5, yang menunjukkan bahwa kecepatan angin yang lebih tinggi dapat membantu mengurangi polusi udara.",
		msgNoData:             "Tidak ada data",
		msgNoReadings:         "Tidak ada data pada rentang yang dipilih.",
		msgNotAvailable:       "t/a",
		msgDownloadCSV:        "Unduh CSV harian",
		msgDownloadXLSX:       "Unduh laporan Excel",
		msgRange:              "Rentang",
		msgReadings:           "Jumlah data",
		msgObservedDays:       "Hari dengan data",
		msgCaption:            "Copyright © Hoel.id 2025",
	} {
		if err := message.SetString(id, key, text); err != nil {
			panic(err)
		}
	}
}

// ResolveLang picks a supported language for the requested code, falling
// back to fallback and then to English. It returns the canonical code.
func ResolveLang(requested, fallback string) string {
	for _, code := range []string{requested, fallback} {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		_, idx, conf := matcher.Match(tag)
		if conf == language.No {
			continue
		}
		return langCode(supported[idx])
	}
	return langCode(supported[0])
}

// Languages lists the codes accepted by ResolveLang.
func Languages() []string {
	out := make([]string, len(supported))
	for i, t := range supported {
		out[i] = langCode(t)
	}
	return out
}

func printerFor(code string) *message.Printer {
	return message.NewPrinter(language.Make(ResolveLang(code, "")))
}

func langCode(t language.Tag) string {
	base, _ := t.Base()
	return base.String()
}
