package model

import (
	"strings"

	"gorm.io/gorm"
)

// LegalDocument is the single free-text legal-notice document shown on the
// auth screen and editable from the back office.
type LegalDocument struct {
	gorm.Model
	Body string `json:"body" gorm:"column:body;type:text"`
}

// DefaultLegalText is served until a recruiter saves a custom notice.
var DefaultLegalText = strings.TrimSpace(`
**Mentions Légales - Mon Job Au Soleil**

**1. Éditeur du site**
L'application "Mon Job Au Soleil" est éditée par le groupe ELSAN.

**2. Hébergement**
L'hébergement est assuré par [Nom de l'hébergeur].

**3. Données Personnelles**
Conformément au RGPD, vous disposez d'un droit d'accès, de rectification et de suppression de vos données.
Les données collectées servent uniquement au matching entre professionnels de santé et établissements.

**4. Contact**
Pour toute question : contact@elsan.care
`)
