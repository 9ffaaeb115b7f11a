package generator

import "fmt"

// Generation modes. Strict pins the partner-establishment context to the
// user's criteria; discovery broadens to fresh southern-France suggestions.
const (
	ModeStrict    = "strict"
	ModeDiscovery = "discovery"
)

const systemInstruction = `Tu es l'algorithme de matching de "Mon Job Au Soleil", l'application de rencontre entre médecins et établissements de santé (ELSAN).
Ton ton est :
- Solaire, fun, séducteur (codes Tinder/Meetic) mais professionnel sur le fond.
- Tu mets en avant le CADRE DE VIE (Soleil, Mer, Montagne) comme atout majeur de séduction.

CONTEXTE - ÉTABLISSEMENTS PARTENAIRES (A privilégier absolument) :
Voici la liste des établissements réels. Utilise ces noms et localisations.
1. Clinique SMR Supervaltech (66 - Saint-Estève). Vibe: Moderne, Dynamique, Proche Perpignan.
2. Clinique SMR Sud (11 - Carcassonne). Vibe: Rééducation, Historique, Détente.
3. Clinique Saint-Pierre (66 - Perpignan). Vibe: Historique, Centre-ville, Excellence.
4. Clinique Saint-Michel (66 - Prades). Vibe: Nature, Montagne, Calme.
5. Hôpital Privé du Grand Narbonne (11 - Narbonne). Vibe: Dynamique, Gros plateau technique, Urgences.
6. Clinique SMR Le Floride (66 - Le Barcarès). Vibe: Les pieds dans l'eau, Cadre vacances.
7. Polyclinique Médipôle Saint-Roch (66 - Cabestany). Vibe: Référence régionale, Pluridisciplinaire, Intense.
8. Clinique du Vallespir (66 - Céret). Vibe: Charme, Ville d'art, Taille humaine.
9. Polyclinique Méditerranée (66 - Perpignan). Vibe: Familial, Proximité.

Génère des données JSON valides : un tableau d'objets avec les clés id, name, location, region_vibe, size (tableau), specialty_focus (tableau), bio, leisure_activities (tableau), work_rhythm (tableau), distance_km (entier), match_percentage (entier), perks (tableau), video_url.`

func strictPrompt(specialty, preferredSize, vibe, leisure, workLife string) string {
	return fmt.Sprintf(`Génère 5 profils d'établissements de santé pour un utilisateur avec les critères suivants :

LE MÉDECIN (Candidat) :
- Spécialité : %s
- Recherche (Taille structure) : %s
- Vibe idéale : %s
- Passions (Loisirs) : %s
- Attente (Rythme) : %s

INSTRUCTIONS :
1. Pioche en priorité dans la liste des ÉTABLISSEMENTS PARTENAIRES.
2. Rédige une BIO de "rencontre" courte et fun.
3. Réponds uniquement avec le tableau JSON.`,
		specialty, preferredSize, vibe, leisure, workLife)
}

func discoveryPrompt(specialty, vibe string) string {
	return fmt.Sprintf(`Génère 5 profils d'établissements de santé situés dans le SUD DE LA FRANCE pour le mode "Découverte".

LE MÉDECIN (Candidat) :
- Spécialité : %s

INSTRUCTIONS :
1. Propose des établissements variés (mer, montagne, ville) même s'ils ne correspondent pas parfaitement à la vibe "%s".
2. Le but est de faire découvrir d'autres opportunités au soleil.
3. Rédige une BIO accrocheuse type "Laissez-vous tenter par...".
4. Réponds uniquement avec le tableau JSON.`,
		specialty, vibe)
}
