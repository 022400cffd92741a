package admin

// Operator-facing status texts. The site copy is Serbian (Latin script).
const (
	statusSigningIn     = "Prijavljivanje..."
	statusSignedIn      = "Uspesna prijava."
	statusSignInFailed  = "Prijava neuspesna. Proverite kredencijale."
	statusSignInError   = "Doslo je do greske pri prijavi."
	statusSignedOut     = "Odjavljeni ste."
	statusConfigMissing = "Konfiguracija nije postavljena. Dodajte SUPABASE promenljive na Vercelu."

	statusPublishing    = "Objavljujemo dogadjaj..."
	statusPublished     = "Dogadjaj je objavljen."
	statusUpdated       = "Dogadjaj je izmenjen."
	statusPublishFailed = "Objavljivanje nije uspelo. Proverite pravila i konekciju."
	statusValidation    = "Popunite sva polja i dodajte sliku."
	statusInFlight      = "Objava je vec u toku."

	statusEditing      = "Menjate dogadjaj. Posaljite izmene ili otkazite."
	statusEditCanceled = "Izmena je otkazana."
	statusEditMissing  = "Dogadjaj nije pronadjen u listi."

	statusDeleted      = "Dogadjaj je obrisan."
	statusDeleteFailed = "Brisanje nije uspelo. Pokusajte ponovo."

	listLoadFailed = "Ne mozemo da ucitamo objave. Proverite konekciju."

	// fallbackTitle labels an event with no title in the admin list.
	fallbackTitle = "Najava"
	// fallbackTime replaces a missing start time.
	fallbackTime = "TBA"
)
