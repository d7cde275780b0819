package overlay

import "maps"

var sampleValues = map[string]string{
	"company_name":           "Acme Research Corp",
	"business_number":        "123456789RC0001",
	"tax_year":               "2024-12-31",
	"project_id":             "P001",
	"project_title":          "Development of Advanced AI-Powered Quality Control System",
	"project_summary":        "This project aims to develop a novel computer vision system that uses deep learning to detect manufacturing defects in real-time.",
	"scientific_advancement": "We are pursuing technological advancement in automated defect detection using novel neural network architectures.",
	"base_knowledge":         "Existing computer vision systems lack accuracy for micro-defects. Current ML models require extensive labeled data.",
	"uncertainties":          "Whether our proposed architecture can achieve 99% accuracy with limited training data remains unclear.",
	"work_description":       "We conducted systematic experiments including: 1) Architecture design, 2) Data augmentation techniques, 3) Transfer learning approaches.",
}

var narrativeSamples = map[string]string{
	"line_242_uncertainties": "Our project faced significant technological uncertainty in developing a real-time defect detection system capable of identifying micro-defects below 0.1mm using computer vision. " +
		"Existing solutions required 10,000+ labeled samples per defect type and achieved only 85% accuracy. " +
		"We were uncertain whether a hybrid CNN-Transformer architecture could achieve 99% accuracy with only 500 training samples per defect type while maintaining real-time processing speeds (<100ms per frame).",
	"line_244_work_performed": "We conducted systematic investigation through three phases:\n\n" +
		"Phase 1 - Architecture Design (Months 1-3): We hypothesized that combining convolutional layers for feature extraction with transformer attention mechanisms would improve accuracy. " +
		"We designed 5 candidate architectures and tested them on synthetic data. Results showed the hybrid approach achieved 92% accuracy vs 85% for CNN-only.\n\n" +
		"Phase 2 - Data Efficiency (Months 4-6): We developed novel data augmentation techniques including physics-based synthetic defect generation and adversarial training. " +
		"Testing showed we could achieve target accuracy with 600 samples (not quite 500 but close).\n\n" +
		"Phase 3 - Speed Optimization (Months 7-9): We implemented model quantization and parallel processing. Achieved 95ms inference time, meeting our real-time requirement.",
	"line_246_advancements": "We achieved advancement in ML-based defect detection: demonstrated that hybrid CNN-Transformer architectures can match human-level accuracy (99%) with 94% fewer training samples than traditional approaches. " +
		"We also discovered that physics-based synthetic data generation is more effective than standard augmentation for rare defect types. " +
		"This scientific knowledge advances the field by showing transformers can be effectively applied to manufacturing vision tasks, not just NLP.",
}

// SampleValues returns the built-in values for the curated layout, keyed by
// value source. The result is a copy.
func SampleValues() map[string]string { return maps.Clone(sampleValues) }

// NarrativeSamples returns built-in narratives keyed by critical field key.
func NarrativeSamples() map[string]string { return maps.Clone(narrativeSamples) }
