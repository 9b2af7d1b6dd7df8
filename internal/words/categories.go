package words

import "math/rand"

// Categories is the fixed list a secret word category is drawn from.
var Categories = []string{
	"حيوانات", "فواكه", "خضروات", "مهن", "دول", "مدن", "أدوات منزلية", "ملابس", "رياضة",
	"أفلام", "مشاعر", "علوم", "تكنولوجيا", "طعام", "مشروبات", "طبيعة", "ألوان",
	"أدوات مكتبية", "وسائل نقل", "آلات موسيقية", "شخصيات تاريخية", "علامات تجارية",
}

// RandomCategory picks a category uniformly.
func RandomCategory(r *rand.Rand) string {
	return Categories[r.Intn(len(Categories))]
}

// offline word lists, one slice per category
var staticWords = map[string][]string{
	"حيوانات":         {"قطة", "أسد", "فيل", "حصان", "زرافة"},
	"فواكه":           {"تفاح", "موز", "برتقال", "عنب", "مانجو"},
	"خضروات":          {"جزر", "بطاطس", "طماطم", "خيار", "بصل"},
	"مهن":             {"طبيب", "مهندس", "معلم", "طباخ", "طيار"},
	"دول":             {"مصر", "اليابان", "البرازيل", "فرنسا", "المغرب"},
	"مدن":             {"القاهرة", "دبي", "باريس", "لندن", "الرياض"},
	"أدوات منزلية":    {"مكنسة", "مقلاة", "ملعقة", "مكواة", "ثلاجة"},
	"ملابس":           {"قميص", "معطف", "حذاء", "قبعة", "فستان"},
	"رياضة":           {"سباحة", "ملاكمة", "تنس", "جودو", "شطرنج"},
	"أفلام":           {"تايتانيك", "أفاتار", "جوكر", "إنسبشن", "ماتريكس"},
	"مشاعر":           {"فرح", "حزن", "غضب", "خوف", "حنين"},
	"علوم":            {"ذرة", "جاذبية", "خلية", "مجرة", "مغناطيس"},
	"تكنولوجيا":       {"حاسوب", "روبوت", "إنترنت", "هاتف", "طابعة"},
	"طعام":            {"بيتزا", "كبسة", "فلافل", "شاورما", "كشري"},
	"مشروبات":         {"قهوة", "شاي", "عصير", "حليب", "ليموناضة"},
	"طبيعة":           {"جبل", "نهر", "غابة", "صحراء", "شلال"},
	"ألوان":           {"أحمر", "أزرق", "أخضر", "بنفسجي", "برتقالي"},
	"أدوات مكتبية":    {"قلم", "مسطرة", "دباسة", "ممحاة", "مقص"},
	"وسائل نقل":       {"قطار", "طائرة", "دراجة", "سفينة", "حافلة"},
	"آلات موسيقية":    {"عود", "بيانو", "كمان", "طبلة", "ناي"},
	"شخصيات تاريخية": {"نابليون", "كليوباترا", "سقراط", "أرسطو", "الخوارزمي"},
	"علامات تجارية":   {"أبل", "سامسونج", "نايكي", "تويوتا", "أديداس"},
}
