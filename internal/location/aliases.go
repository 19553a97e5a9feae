package location

// aliases maps common spellings straight to Kemenag city ids so the usual
// subscriptions never depend on the search endpoint being up. Keys are
// normalized (lowercase, single-spaced).
var aliases = map[string]City{
	"jakarta":     {ID: "1301", Name: "KOTA JAKARTA"},
	"dki jakarta": {ID: "1301", Name: "KOTA JAKARTA"},
	"bandung":     {ID: "1219", Name: "KOTA BANDUNG"},
	"surabaya":    {ID: "1638", Name: "KOTA SURABAYA"},
	"medan":       {ID: "0223", Name: "KOTA MEDAN"},
	"semarang":    {ID: "1430", Name: "KOTA SEMARANG"},
	"yogyakarta":  {ID: "1501", Name: "KOTA YOGYAKARTA"},
	"jogja":       {ID: "1501", Name: "KOTA YOGYAKARTA"},
	"jogjakarta":  {ID: "1501", Name: "KOTA YOGYAKARTA"},
	"makassar":    {ID: "2471", Name: "KOTA MAKASSAR"},
	"palembang":   {ID: "0526", Name: "KOTA PALEMBANG"},
	"denpasar":    {ID: "1701", Name: "KOTA DENPASAR"},
	"bekasi":      {ID: "1221", Name: "KOTA BEKASI"},
	"depok":       {ID: "1225", Name: "KOTA DEPOK"},
	"tangerang":   {ID: "1802", Name: "KOTA TANGERANG"},
	"bogor":       {ID: "1220", Name: "KOTA BOGOR"},
	"malang":      {ID: "1628", Name: "KOTA MALANG"},
	"padang":      {ID: "0314", Name: "KOTA PADANG"},
	"pekanbaru":   {ID: "0412", Name: "KOTA PEKANBARU"},
	"banjarmasin": {ID: "2274", Name: "KOTA BANJARMASIN"},
	"pontianak":   {ID: "2171", Name: "KOTA PONTIANAK"},
	"samarinda":   {ID: "2372", Name: "KOTA SAMARINDA"},
	"banda aceh":  {ID: "0112", Name: "KOTA BANDA ACEH"},
	"mataram":     {ID: "1871", Name: "KOTA MATARAM"},
	"manado":      {ID: "2571", Name: "KOTA MANADO"},
	"jayapura":    {ID: "3071", Name: "KOTA JAYAPURA"},
}
