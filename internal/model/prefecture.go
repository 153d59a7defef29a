package model

import "github.com/rotisserie/eris"

// Prefecture identifies one of the 51 regions in the regional tables.
type Prefecture string

const (
	PrefectureAttica           Prefecture = "ATTICA"
	PrefectureAetoliaAcarnania Prefecture = "AETOLIA_ACARNANIA"
	PrefectureArgolis          Prefecture = "ARGOLIS"
	PrefectureArkadias         Prefecture = "ARKADIAS"
	PrefectureArta             Prefecture = "ARTA"
	PrefectureAchaea           Prefecture = "ACHAEA"
	PrefectureBoeotia          Prefecture = "BOEOTIA"
	PrefectureGrevena          Prefecture = "GREVENA"
	PrefectureDrama            Prefecture = "DRAMA"
	PrefectureDodecanese       Prefecture = "DODECANESE"
	PrefectureEvros            Prefecture = "EVROS"
	PrefectureEuboea           Prefecture = "EUBOEA"
	PrefectureEvrytania        Prefecture = "EVRYTANIA"
	PrefectureZakynthos        Prefecture = "ZAKYNTHOS"
	PrefectureElis             Prefecture = "ELIS"
	PrefectureImathia          Prefecture = "IMATHIA"
	PrefectureHeraklion        Prefecture = "HERAKLION"
	PrefectureThesprotia       Prefecture = "THESPROTIA"
	PrefectureThessaloniki     Prefecture = "THESSALONIKI"
	PrefectureIoannina         Prefecture = "IOANNINA"
	PrefectureKavala           Prefecture = "KAVALA"
	PrefectureKarditsa         Prefecture = "KARDITSA"
	PrefectureKastoria         Prefecture = "KASTORIA"
	PrefectureKerkyra          Prefecture = "KERKYRA"
	PrefectureCephalonia       Prefecture = "CEPHALONIA"
	PrefectureKilkis           Prefecture = "KILKIS"
	PrefectureKozani           Prefecture = "KOZANI"
	PrefectureCorinthia        Prefecture = "CORINTHIA"
	PrefectureCyclades         Prefecture = "CYCLADES"
	PrefectureLaconia          Prefecture = "LACONIA"
	PrefectureLarissa          Prefecture = "LARISSA"
	PrefectureLasithi          Prefecture = "LASITHI"
	PrefectureLesbos           Prefecture = "LESBOS"
	PrefectureLefkada          Prefecture = "LEFKADA"
	PrefectureMagnesia         Prefecture = "MAGNESIA"
	PrefectureMessenia         Prefecture = "MESSENIA"
	PrefectureXanthi           Prefecture = "XANTHI"
	PrefecturePella            Prefecture = "PELLA"
	PrefecturePieria           Prefecture = "PIERIA"
	PrefecturePreveza          Prefecture = "PREVEZA"
	PrefectureRethymno         Prefecture = "RETHYMNO"
	PrefectureRhodope          Prefecture = "RHODOPE"
	PrefectureSamos            Prefecture = "SAMOS"
	PrefectureSerres           Prefecture = "SERRES"
	PrefectureTrikala          Prefecture = "TRIKALA"
	PrefecturePhthiotis        Prefecture = "PHTHIOTIS"
	PrefectureFlorina          Prefecture = "FLORINA"
	PrefecturePhocis           Prefecture = "PHOCIS"
	PrefectureChalkidiki       Prefecture = "CHALKIDIKI"
	PrefectureChania           Prefecture = "CHANIA"
	PrefectureChios            Prefecture = "CHIOS"
)

// PrefectureCount is the number of regions every regional table must list.
const PrefectureCount = 51

type prefectureInfo struct {
	id    Prefecture
	label string
}

var prefectures = [PrefectureCount]prefectureInfo{
	{PrefectureAttica, "ΑΤΤΙΚΗΣ"},
	{PrefectureAetoliaAcarnania, "ΑΙΤΩΛΙΑΣ ΚΑΙ ΑΚΑΡΝΑΝΙΑΣ"},
	{PrefectureArgolis, "ΑΡΓΟΛΙΔΟΣ"},
	{PrefectureArkadias, "ΑΡΚΑΔΙΑΣ"},
	{PrefectureArta, "ΑΡΤΗΣ"},
	{PrefectureAchaea, "ΑΧΑΪΑΣ"},
	{PrefectureBoeotia, "ΒΟΙΩΤΙΑΣ"},
	{PrefectureGrevena, "ΓΡΕΒΕΝΩΝ"},
	{PrefectureDrama, "ΔΡΑΜΑΣ"},
	{PrefectureDodecanese, "ΔΩΔΕΚΑΝΗΣΟΥ"},
	{PrefectureEvros, "ΕΒΡΟΥ"},
	{PrefectureEuboea, "ΕΥΒΟΙΑΣ"},
	{PrefectureEvrytania, "ΕΥΡΥΤΑΝΙΑΣ"},
	{PrefectureZakynthos, "ΖΑΚΥΝΘΟΥ"},
	{PrefectureElis, "ΗΛΕΙΑΣ"},
	{PrefectureImathia, "ΗΜΑΘΙΑΣ"},
	{PrefectureHeraklion, "ΗΡΑΚΛΕΙΟΥ"},
	{PrefectureThesprotia, "ΘΕΣΠΡΩΤΙΑΣ"},
	{PrefectureThessaloniki, "ΘΕΣΣΑΛΟΝΙΚΗΣ"},
	{PrefectureIoannina, "ΙΩΑΝΝΙΝΩΝ"},
	{PrefectureKavala, "ΚΑΒΑΛΑΣ"},
	{PrefectureKarditsa, "ΚΑΡΔΙΤΣΗΣ"},
	{PrefectureKastoria, "ΚΑΣΤΟΡΙΑΣ"},
	{PrefectureKerkyra, "ΚΕΡΚΥΡΑΣ"},
	{PrefectureCephalonia, "ΚΕΦΑΛΛΗΝΙΑΣ"},
	{PrefectureKilkis, "ΚΙΛΚΙΣ"},
	{PrefectureKozani, "ΚΟΖΑΝΗΣ"},
	{PrefectureCorinthia, "ΚΟΡΙΝΘΙΑΣ"},
	{PrefectureCyclades, "ΚΥΚΛΑΔΩΝ"},
	{PrefectureLaconia, "ΛΑΚΩΝΙΑΣ"},
	{PrefectureLarissa, "ΛΑΡΙΣΗΣ"},
	{PrefectureLasithi, "ΛΑΣΙΘΙΟΥ"},
	{PrefectureLesbos, "ΛΕΣΒΟΥ"},
	{PrefectureLefkada, "ΛΕΥΚΑΔΟΣ"},
	{PrefectureMagnesia, "ΜΑΓΝΗΣΙΑΣ"},
	{PrefectureMessenia, "ΜΕΣΣΗΝΙΑΣ"},
	{PrefectureXanthi, "ΞΑΝΘΗΣ"},
	{PrefecturePella, "ΠΕΛΛΗΣ"},
	{PrefecturePieria, "ΠΙΕΡΙΑΣ"},
	{PrefecturePreveza, "ΠΡΕΒΕΖΗΣ"},
	{PrefectureRethymno, "ΡΕΘΥΜΝΗΣ"},
	{PrefectureRhodope, "ΡΟΔΟΠΗΣ"},
	{PrefectureSamos, "ΣΑΜΟΥ"},
	{PrefectureSerres, "ΣΕΡΡΩΝ"},
	{PrefectureTrikala, "ΤΡΙΚΑΛΩΝ"},
	{PrefecturePhthiotis, "ΦΘΙΩΤΙΔΟΣ"},
	{PrefectureFlorina, "ΦΛΩΡΙΝΗΣ"},
	{PrefecturePhocis, "ΦΩΚΙΔΟΣ"},
	{PrefectureChalkidiki, "ΧΑΛΚΙΔΙΚΗΣ"},
	{PrefectureChania, "ΧΑΝΙΩΝ"},
	{PrefectureChios, "ΧΙΟΥ"},
}

var prefectureLabels = func() map[Prefecture]string {
	m := make(map[Prefecture]string, PrefectureCount)
	for _, p := range prefectures {
		m[p.id] = p.label
	}
	return m
}()

// Prefectures returns all regions in the order the bulletins list them.
func Prefectures() []Prefecture {
	out := make([]Prefecture, len(prefectures))
	for i, p := range prefectures {
		out[i] = p.id
	}
	return out
}

// Label returns the uppercase Greek (genitive) name printed in the tables.
func (p Prefecture) Label() string {
	return prefectureLabels[p]
}

func (p Prefecture) String() string {
	return string(p)
}

// Valid reports whether p is one of the 51 known regions.
func (p Prefecture) Valid() bool {
	_, ok := prefectureLabels[p]
	return ok
}

// ParsePrefecture converts an identifier like "ATTICA" into a Prefecture.
func ParsePrefecture(s string) (Prefecture, error) {
	p := Prefecture(s)
	if !p.Valid() {
		return "", eris.Errorf("unknown prefecture: %q", s)
	}
	return p, nil
}
