package model

// MedicalSpecialties is the closed catalog of professions offered in the
// profile forms and in the recruiter hospital editor.
var MedicalSpecialties = []string{
	"Médecin Généraliste", "Urgentiste", "Cardiologue", "Pédiatre", "Anesthésiste", "Gériatre",
	"Chirurgien Orthopédiste", "Chirurgien Viscéral", "Gynécologue-Obstétricien", "Ophtalmologue",
	"ORL", "Psychiatre", "Radiologue", "Neurologue", "Dermatologue", "Gastro-entérologue",
	"Pneumologue", "Rhumatologue", "Néphrologue", "Endocrinologue", "Oncologue",
	"Médecin du Sport", "Médecin du Travail", "Médecin Rééducateur (MPR)", "Biologiste",
	"Kinésithérapeute", "Infirmier(e) DE", "Infirmier(e) Bloc (IBODE)", "Infirmier(e) Anesthésiste (IADE)",
	"Sage-Femme", "Aide-Soignant(e)", "Cadre de Santé", "Psychologue", "Autre",
}

// ValidSpecialty reports whether s is part of the catalog.
func ValidSpecialty(s string) bool {
	for _, v := range MedicalSpecialties {
		if v == s {
			return true
		}
	}
	return false
}
