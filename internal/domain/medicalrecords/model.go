package medicalrecords

type BloodGroup string

const (
	BloodAPos  BloodGroup = "A+"
	BloodANeg  BloodGroup = "A-"
	BloodBPos  BloodGroup = "B+"
	BloodBNeg  BloodGroup = "B-"
	BloodABPos BloodGroup = "AB+"
	BloodABNeg BloodGroup = "AB-"
	BloodOPos  BloodGroup = "O+"
	BloodONeg  BloodGroup = "O-"
)

func (b BloodGroup) Valid() bool {
	switch b {
	case BloodAPos, BloodANeg, BloodBPos, BloodBNeg, BloodABPos, BloodABNeg, BloodOPos, BloodONeg:
		return true
	default:
		return false
	}
}

// MedicalRecord: una ficha por paciente.
// BloodGroup, HeightCM y WeightKG son opcionales (vacío / 0 = sin dato).
type MedicalRecord struct {
	PatientID   string
	Diagnoses   []string
	Medications []string
	Allergies   []string
	BloodGroup  BloodGroup
	HeightCM    float64
	WeightKG    float64
}
