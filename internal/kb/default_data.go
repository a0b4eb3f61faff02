package kb

import "github.com/dshills/plantdx/internal/schema"

const (
	tomato = schema.PlantTomato
	potato = schema.PlantPotato
	chilli = schema.PlantChilli
)

func plants(p ...schema.PlantCategory) []schema.PlantCategory { return p }

// defaultKB is the hand-authored plant disease knowledge base. It must never
// be handed out directly; Default returns a deep copy.
var defaultKB = schema.KnowledgeBase{
	Symptoms: []schema.Symptom{
		{ID: "s1", Name: "Dark brown spots on lower leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(tomato)},
		{ID: "s2", Name: "Concentric rings on leaf spots", Category: schema.CategoryLeaf, ApplicablePlants: plants(tomato)},
		{ID: "s3", Name: "Yellowing around leaf spots", Category: schema.CategoryLeaf, ApplicablePlants: plants(tomato)},
		{ID: "s4", Name: "Water-soaked lesions on leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(tomato)},
		{ID: "s5", Name: "White fuzzy growth under leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(tomato)},
		{ID: "s6", Name: "Rapid wilting of entire plant", Category: schema.CategoryGeneral, ApplicablePlants: plants(tomato)},
		{ID: "s7", Name: "Dark brown streaks on stems", Category: schema.CategoryStem, ApplicablePlants: plants(tomato)},
		{ID: "s8", Name: "Upward curling of leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(tomato)},
		{ID: "s9", Name: "Stunted plant growth", Category: schema.CategoryGeneral, ApplicablePlants: plants(tomato, potato, chilli)},
		{ID: "s10", Name: "Leaf yellowing (chlorosis)", Category: schema.CategoryLeaf, ApplicablePlants: plants(tomato, potato, chilli)},
		{ID: "s11", Name: "Thickened and leathery leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(tomato)},
		{ID: "s12", Name: "Wilting during daytime, recovery at night", Category: schema.CategoryGeneral, ApplicablePlants: plants(tomato)},
		{ID: "s13", Name: "Brown discoloration of stem vascular tissue", Category: schema.CategoryStem, ApplicablePlants: plants(tomato)},
		{ID: "s14", Name: "Milky bacterial ooze from cut stems", Category: schema.CategoryStem, ApplicablePlants: plants(tomato)},
		{ID: "s15", Name: "Fruit with dark sunken spots", Category: schema.CategoryFruit, ApplicablePlants: plants(tomato)},
		{ID: "s16", Name: "Dark brown sclerotia on tuber surface", Category: schema.CategoryFruit, ApplicablePlants: plants(potato)},
		{ID: "s17", Name: "Black crust on potato skin", Category: schema.CategoryFruit, ApplicablePlants: plants(potato)},
		{ID: "s18", Name: "Misshapen tubers", Category: schema.CategoryFruit, ApplicablePlants: plants(potato)},
		{ID: "s19", Name: "White fungal growth on sprouts", Category: schema.CategoryStem, ApplicablePlants: plants(potato)},
		{ID: "s20", Name: "Raised rough patches on tuber skin", Category: schema.CategoryFruit, ApplicablePlants: plants(potato)},
		{ID: "s21", Name: "Corky lesions on tuber surface", Category: schema.CategoryFruit, ApplicablePlants: plants(potato)},
		{ID: "s22", Name: "Shallow pitted areas on tubers", Category: schema.CategoryFruit, ApplicablePlants: plants(potato)},
		{ID: "s23", Name: "Water-soaked brown spots on leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(potato)},
		{ID: "s24", Name: "White mold on leaf undersides", Category: schema.CategoryLeaf, ApplicablePlants: plants(potato)},
		{ID: "s25", Name: "Tuber flesh turns brown and rots", Category: schema.CategoryFruit, ApplicablePlants: plants(potato)},
		{ID: "s26", Name: "Mosaic pattern on leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(potato)},
		{ID: "s27", Name: "Leaf crinkling and distortion", Category: schema.CategoryLeaf, ApplicablePlants: plants(potato)},
		{ID: "s28", Name: "Reduced tuber size", Category: schema.CategoryFruit, ApplicablePlants: plants(potato)},
		{ID: "s29", Name: "Plant appears bushy and dwarfed", Category: schema.CategoryGeneral, ApplicablePlants: plants(potato)},
		{ID: "s30", Name: "Sunken dark spots on fruits", Category: schema.CategoryFruit, ApplicablePlants: plants(chilli)},
		{ID: "s31", Name: "Concentric rings on fruit lesions", Category: schema.CategoryFruit, ApplicablePlants: plants(chilli)},
		{ID: "s32", Name: "Fruit rot and shriveling", Category: schema.CategoryFruit, ApplicablePlants: plants(chilli)},
		{ID: "s33", Name: "Salmon-colored spore mass on fruit", Category: schema.CategoryFruit, ApplicablePlants: plants(chilli)},
		{ID: "s34", Name: "White powdery coating on leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(chilli)},
		{ID: "s35", Name: "Yellow patches on upper leaf surface", Category: schema.CategoryLeaf, ApplicablePlants: plants(chilli)},
		{ID: "s36", Name: "Leaf drop (defoliation)", Category: schema.CategoryLeaf, ApplicablePlants: plants(chilli)},
		{ID: "s37", Name: "Small water-soaked spots on leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(chilli)},
		{ID: "s38", Name: "Spots turn brown with yellow halo", Category: schema.CategoryLeaf, ApplicablePlants: plants(chilli)},
		{ID: "s39", Name: "Raised bumps on leaf undersides", Category: schema.CategoryLeaf, ApplicablePlants: plants(chilli)},
		{ID: "s40", Name: "Mosaic/mottled pattern on chilli leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(chilli)},
		{ID: "s41", Name: "Distorted and curled leaves", Category: schema.CategoryLeaf, ApplicablePlants: plants(chilli)},
		{ID: "s42", Name: "Reduced fruit production", Category: schema.CategoryFruit, ApplicablePlants: plants(chilli)},
		{ID: "s43", Name: "Fruit deformity", Category: schema.CategoryFruit, ApplicablePlants: plants(chilli)},
	},
	Diseases: []schema.Disease{
		{
			ID:            "d1",
			Name:          "Early Blight",
			PlantCategory: tomato,
			Description:   "A fungal disease caused by Alternaria solani. It typically starts on lower, older leaves and progresses upward. Characterized by concentric ring patterns ('target spots').",
			Treatment:     "Remove infected leaves. Apply copper-based fungicide. Ensure proper spacing for air circulation. Use mulch to prevent soil splash. Practice crop rotation.",
			Rules: []schema.ProductionRule{
				{ID: "r1", Conditions: []string{"s1", "s2", "s3"}, Conclusion: "d1", Weight: 9},
				{ID: "r2", Conditions: []string{"s1", "s2", "s15"}, Conclusion: "d1", Weight: 7},
				{ID: "r3", Conditions: []string{"s1", "s3", "s10"}, Conclusion: "d1", Weight: 6},
			},
		},
		{
			ID:            "d2",
			Name:          "Late Blight",
			PlantCategory: tomato,
			Description:   "A devastating disease caused by the oomycete Phytophthora infestans. It spreads rapidly in cool, moist conditions and can destroy entire crops within days.",
			Treatment:     "Apply systemic fungicide immediately. Remove and destroy all infected plants. Avoid overhead watering. Plant resistant varieties. Monitor weather conditions closely.",
			Rules: []schema.ProductionRule{
				{ID: "r4", Conditions: []string{"s4", "s5", "s7"}, Conclusion: "d2", Weight: 9},
				{ID: "r5", Conditions: []string{"s4", "s5", "s6"}, Conclusion: "d2", Weight: 8},
				{ID: "r6", Conditions: []string{"s4", "s7", "s15"}, Conclusion: "d2", Weight: 7},
			},
		},
		{
			ID:            "d3",
			Name:          "Leaf Curl Virus",
			PlantCategory: tomato,
			Description:   "A viral disease transmitted by whiteflies (Bemisia tabaci). Causes severe leaf curling, stunted growth, and significant yield loss.",
			Treatment:     "Control whitefly population with yellow sticky traps and neem oil. Remove infected plants. Use virus-resistant seed varieties. Apply systemic insecticides if needed.",
			Rules: []schema.ProductionRule{
				{ID: "r7", Conditions: []string{"s8", "s9", "s11"}, Conclusion: "d3", Weight: 9},
				{ID: "r8", Conditions: []string{"s8", "s10", "s9"}, Conclusion: "d3", Weight: 7},
				{ID: "r9", Conditions: []string{"s8", "s11", "s10"}, Conclusion: "d3", Weight: 8},
			},
		},
		{
			ID:            "d4",
			Name:          "Bacterial Wilt",
			PlantCategory: tomato,
			Description:   "Caused by Ralstonia solanacearum. The bacterium enters through roots and blocks water-conducting vessels, causing rapid wilting without yellowing.",
			Treatment:     "No chemical cure available. Remove and destroy infected plants. Solarize soil before replanting. Use resistant rootstock. Improve soil drainage. Practice long crop rotation (3-4 years).",
			Rules: []schema.ProductionRule{
				{ID: "r10", Conditions: []string{"s12", "s13", "s14"}, Conclusion: "d4", Weight: 10},
				{ID: "r11", Conditions: []string{"s6", "s12", "s13"}, Conclusion: "d4", Weight: 8},
				{ID: "r12", Conditions: []string{"s12", "s14", "s6"}, Conclusion: "d4", Weight: 9},
			},
		},
		{
			ID:            "d5",
			Name:          "Black Scurf",
			PlantCategory: potato,
			Description:   "Caused by the fungus Rhizoctonia solani. Forms black, hard masses (sclerotia) on tuber surface. Can cause stem canker and reduce emergence.",
			Treatment:     "Use certified disease-free seed tubers. Treat seed with fungicide before planting. Ensure proper soil drainage. Harvest promptly when mature. Practice crop rotation.",
			Rules: []schema.ProductionRule{
				{ID: "r13", Conditions: []string{"s16", "s17", "s18"}, Conclusion: "d5", Weight: 9},
				{ID: "r14", Conditions: []string{"s16", "s19", "s17"}, Conclusion: "d5", Weight: 8},
				{ID: "r15", Conditions: []string{"s17", "s18", "s9"}, Conclusion: "d5", Weight: 6},
			},
		},
		{
			ID:            "d6",
			Name:          "Common Scab",
			PlantCategory: potato,
			Description:   "Caused by Streptomyces scabies. Creates rough, corky lesions on tuber surface. Favored by dry, alkaline soil conditions.",
			Treatment:     "Maintain soil pH between 5.0-5.2. Ensure consistent soil moisture. Use scab-resistant varieties. Avoid adding lime before planting. Apply sulfur to lower soil pH.",
			Rules: []schema.ProductionRule{
				{ID: "r16", Conditions: []string{"s20", "s21", "s22"}, Conclusion: "d6", Weight: 9},
				{ID: "r17", Conditions: []string{"s20", "s21", "s18"}, Conclusion: "d6", Weight: 7},
				{ID: "r18", Conditions: []string{"s21", "s22", "s28"}, Conclusion: "d6", Weight: 6},
			},
		},
		{
			ID:            "d7",
			Name:          "Potato Late Blight",
			PlantCategory: potato,
			Description:   "Same pathogen as tomato late blight (Phytophthora infestans). Historically caused the Irish Potato Famine. Rapidly destroys foliage and tubers.",
			Treatment:     "Apply preventive fungicides before symptoms appear. Remove and destroy infected plants. Avoid overhead irrigation. Hill potatoes to protect tubers. Use resistant varieties.",
			Rules: []schema.ProductionRule{
				{ID: "r19", Conditions: []string{"s23", "s24", "s25"}, Conclusion: "d7", Weight: 10},
				{ID: "r20", Conditions: []string{"s23", "s24", "s10"}, Conclusion: "d7", Weight: 8},
				{ID: "r21", Conditions: []string{"s23", "s25", "s6"}, Conclusion: "d7", Weight: 7},
			},
		},
		{
			ID:            "d8",
			Name:          "Potato Mosaic Virus",
			PlantCategory: potato,
			Description:   "A viral disease spread by aphids. Causes mosaic patterns, leaf distortion, and significant yield reduction over generations.",
			Treatment:     "Use certified virus-free seed tubers. Control aphid populations with insecticides or natural predators. Remove infected plants promptly. Plant resistant varieties.",
			Rules: []schema.ProductionRule{
				{ID: "r22", Conditions: []string{"s26", "s27", "s28"}, Conclusion: "d8", Weight: 9},
				{ID: "r23", Conditions: []string{"s26", "s27", "s29"}, Conclusion: "d8", Weight: 8},
				{ID: "r24", Conditions: []string{"s26", "s9", "s29"}, Conclusion: "d8", Weight: 7},
			},
		},
		{
			ID:            "d9",
			Name:          "Anthracnose",
			PlantCategory: chilli,
			Description:   "Caused by Colletotrichum species. Primarily attacks fruits, creating sunken lesions with concentric rings. Major post-harvest disease.",
			Treatment:     "Use disease-free seeds. Apply fungicide sprays (mancozeb/copper). Remove infected fruits immediately. Ensure good air circulation. Avoid overhead irrigation. Practice crop rotation.",
			Rules: []schema.ProductionRule{
				{ID: "r25", Conditions: []string{"s30", "s31", "s32"}, Conclusion: "d9", Weight: 9},
				{ID: "r26", Conditions: []string{"s30", "s33", "s32"}, Conclusion: "d9", Weight: 10},
				{ID: "r27", Conditions: []string{"s30", "s31", "s42"}, Conclusion: "d9", Weight: 7},
			},
		},
		{
			ID:            "d10",
			Name:          "Powdery Mildew",
			PlantCategory: chilli,
			Description:   "Caused by Leveillula taurica. Forms white powdery patches on leaf surfaces. Reduces photosynthesis and can cause severe defoliation.",
			Treatment:     "Apply sulfur-based fungicide. Use neem oil spray. Ensure proper plant spacing. Remove heavily infected leaves. Avoid excess nitrogen fertilization.",
			Rules: []schema.ProductionRule{
				{ID: "r28", Conditions: []string{"s34", "s35", "s36"}, Conclusion: "d10", Weight: 9},
				{ID: "r29", Conditions: []string{"s34", "s35", "s10"}, Conclusion: "d10", Weight: 8},
				{ID: "r30", Conditions: []string{"s34", "s36", "s42"}, Conclusion: "d10", Weight: 7},
			},
		},
		{
			ID:            "d11",
			Name:          "Bacterial Leaf Spot",
			PlantCategory: chilli,
			Description:   "Caused by Xanthomonas campestris. Creates small, water-soaked spots that enlarge and turn brown. Spreads rapidly in warm, humid conditions.",
			Treatment:     "Apply copper-based bactericide. Use disease-free transplants. Avoid working with wet plants. Practice crop rotation (2-3 years). Remove plant debris after harvest.",
			Rules: []schema.ProductionRule{
				{ID: "r31", Conditions: []string{"s37", "s38", "s39"}, Conclusion: "d11", Weight: 9},
				{ID: "r32", Conditions: []string{"s37", "s38", "s36"}, Conclusion: "d11", Weight: 8},
				{ID: "r33", Conditions: []string{"s37", "s39", "s42"}, Conclusion: "d11", Weight: 6},
			},
		},
		{
			ID:            "d12",
			Name:          "Chilli Mosaic Virus",
			PlantCategory: chilli,
			Description:   "A viral disease transmitted by aphids and through mechanical contact. Causes distinctive mosaic patterns, leaf distortion, and fruit deformity.",
			Treatment:     "Remove and destroy infected plants immediately. Control aphid vectors with insecticides. Use virus-resistant varieties. Disinfect tools between plants. Use reflective mulches to repel aphids.",
			Rules: []schema.ProductionRule{
				{ID: "r34", Conditions: []string{"s40", "s41", "s9"}, Conclusion: "d12", Weight: 9},
				{ID: "r35", Conditions: []string{"s40", "s41", "s43"}, Conclusion: "d12", Weight: 8},
				{ID: "r36", Conditions: []string{"s40", "s42", "s43"}, Conclusion: "d12", Weight: 7},
			},
		},
	},
}
