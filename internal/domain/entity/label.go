package entity

import "fmt"

// Label короткий код состояния зуба, который умеет выдавать классификатор.
type Label string

const (
	LabelCaries           Label = "CaS" // кариес
	LabelCosmetic         Label = "CoS" // косметическая стоматология
	LabelGum              Label = "Gum" // заболевания дёсен
	LabelMouthCancer      Label = "MC"  // рак полости рта
	LabelOralCandidiasis  Label = "OC"  // кандидоз
	LabelOralLichenPlanus Label = "OLP" // красный плоский лишай
	LabelOther            Label = "OT"  // прочее
)

// Labels порядок меток совпадает с порядком выходного слоя модели.
var Labels = []Label{
	LabelCaries,
	LabelCosmetic,
	LabelGum,
	LabelMouthCancer,
	LabelOralCandidiasis,
	LabelOralLichenPlanus,
	LabelOther,
}

var descriptions = map[Label]string{
	LabelCaries:           "Caries (Cavities): Cavities occur when tooth decay destroys the tooth's enamel and underlying layers. They are caused by bacteria that feed on sugars, producing acids that erode the tooth surface. Treatments include fluoride, fillings, crowns, or root canals for severe cases.",
	LabelCosmetic:         "Cosmetic Dentistry: This includes treatments such as whitening, veneers, and bonding aimed at improving the appearance of teeth, gums, and smile. Procedures vary depending on the desired aesthetic outcome.",
	LabelGum:              "Gum Disease (Periodontal Disease): Gum disease ranges from gingivitis (mild inflammation) to periodontitis, where the infection damages tissues and bones supporting the teeth. Early detection and treatments like scaling, antibiotics, or surgery can prevent tooth loss.",
	LabelMouthCancer:      "Mouth Cancer: Oral cancer can develop in the mouth or throat, often manifesting as persistent sores, lumps, or abnormal patches. Early detection is key to effective treatment through surgery, radiation, or chemotherapy.",
	LabelOralCandidiasis:  "Oral Candidiasis (Thrush): A fungal infection caused by Candida species, oral thrush presents as white patches on the tongue or mouth lining. It can be treated with antifungal medications.",
	LabelOralLichenPlanus: "Oral Lichen Planus: A chronic inflammatory condition that affects the mucous membranes inside the mouth, causing white patches or painful sores. Treatment focuses on managing symptoms and preventing flare-ups.",
	LabelOther:            "Other Conditions: This includes a range of other dental problems, such as dental abscesses (infection-induced pus pockets), impacted teeth (teeth stuck under the gum), and TMJ disorders (jaw pain).",
}

// Description возвращает текст описания метки.
func (l Label) Description() string {
	return descriptions[l]
}

// ValidateCatalog проверяет, что у каждой метки есть непустое описание.
func ValidateCatalog() error {
	return validateCatalog(Labels, descriptions)
}

func validateCatalog(labels []Label, table map[Label]string) error {
	seen := make(map[Label]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return fmt.Errorf("label catalog: duplicate label %q", l)
		}
		seen[l] = true
		if table[l] == "" {
			return fmt.Errorf("label catalog: no description for %q", l)
		}
	}
	for l := range table {
		if !seen[l] {
			return fmt.Errorf("label catalog: description for unknown label %q", l)
		}
	}
	return nil
}
