package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认语言
const DefaultLocale = "ar"

var supportedLocales = map[string]bool{
	"ar": true,
	"en": true,
}

var messages = map[string]map[string]string{
	"ar": {
		"error.bad_request":            "طلب غير صالح",
		"error.unauthorized":           "غير مصرح",
		"error.forbidden":              "ممنوع",
		"error.not_found":              "غير موجود",
		"error.internal":               "خطأ داخلي",
		"error.rate_limited":           "محاولات كثيرة، حاول بعد %d ثانية",
		"error.rate_limit_unavailable": "خدمة الحماية غير متاحة",
		"error.auth_header_missing":    "ترويسة التفويض مفقودة",
		"error.auth_header_invalid":    "ترويسة التفويض غير صالحة",
		"error.token_invalid":          "رمز الدخول غير صالح",
		"error.login_failed":           "بيانات الدخول غير صحيحة",
		"error.login_too_many":         "محاولات دخول كثيرة، حاول بعد %d ثانية",
		"auth.logged_in":               "تم تسجيل الدخول",
		"card.issued":                  "تم إصدار البطاقة",
		"card.fetched":                 "تم جلب البطاقة",
		"card.listed":                  "تم جلب البطاقات",
		"card.updated":                 "تم تحديث البطاقة",
		"card.not_found":               "البطاقة غير موجودة",
		"card.expired":                 "البطاقة منتهية الصلاحية",
		"card.inactive":                "البطاقة غير فعالة",
		"qr.invalid":                   "رمز غير صالح",
		"qr.listed":                    "تم جلب الرموز",
		"invoice.created":              "تم إنشاء الفاتورة",
		"invoice.listed":               "تم جلب الفواتير",
		"customer.fetched":             "تم جلب البيانات",
		"customer.created":             "تم إنشاء الزبون",
		"customer.updated":             "تم تحديث البيانات",
		"customer.not_found":           "الزبون غير موجود",
		"customer.exists":              "الزبون موجود مسبقا",
		"token.issued":                 "تم إصدار الرمز",
		"store.listed":                 "تم جلب المتاجر",
		"store.created":                "تم إنشاء المتجر",
		"store.updated":                "تم تحديث المتجر",
		"store.deleted":                "تم حذف المتجر",
		"store.not_found":              "المتجر غير موجود",
		"store.inactive":               "المتجر غير فعال",
		"reward.listed":                "تم جلب المكافآت",
		"reward.created":               "تم إنشاء المكافأة",
		"reward.updated":               "تم تحديث المكافأة",
		"reward.disabled":              "تم تعطيل المكافأة",
		"reward.not_found":             "المكافأة غير موجودة",
		"voucher.listed":               "تم جلب القسائم",
		"voucher.redeemed":             "تم استخدام القسيمة",
		"voucher.invalid":              "القسيمة غير صالحة",
		"voucher.not_found":            "القسيمة غير موجودة",
		"points.insufficient":          "الرصيد غير كاف",
		"points.listed":                "تم جلب حركات النقاط",
		"points.redeemed":              "تم استبدال النقاط",
		"audit.listed":                 "تم جلب سجل العمليات",
		"discount.invalid_input":       "نسبة الخصم غير صالحة",
	},
	"en": {
		"error.bad_request":            "invalid request",
		"error.unauthorized":           "unauthorized",
		"error.forbidden":              "forbidden",
		"error.not_found":              "not found",
		"error.internal":               "internal error",
		"error.rate_limited":           "too many requests, retry in %d seconds",
		"error.rate_limit_unavailable": "rate limit service unavailable",
		"error.auth_header_missing":    "authorization header missing",
		"error.auth_header_invalid":    "authorization header invalid",
		"error.token_invalid":          "access token invalid",
		"error.login_failed":           "invalid credentials",
		"error.login_too_many":         "too many login attempts, retry in %d seconds",
		"auth.logged_in":               "logged in",
		"card.issued":                  "card issued",
		"card.fetched":                 "card fetched",
		"card.listed":                  "cards listed",
		"card.updated":                 "card updated",
		"card.not_found":               "card not found",
		"card.expired":                 "card expired",
		"card.inactive":                "card inactive",
		"qr.invalid":                   "invalid token",
		"qr.listed":                    "tokens listed",
		"invoice.created":              "invoice created",
		"invoice.listed":               "invoices listed",
		"customer.fetched":             "fetched",
		"customer.created":             "customer created",
		"customer.updated":             "updated",
		"customer.not_found":           "customer not found",
		"customer.exists":              "customer already exists",
		"token.issued":                 "token issued",
		"store.listed":                 "stores listed",
		"store.created":                "store created",
		"store.updated":                "store updated",
		"store.deleted":                "store deleted",
		"store.not_found":              "store not found",
		"store.inactive":               "store inactive",
		"reward.listed":                "rewards listed",
		"reward.created":               "reward created",
		"reward.updated":               "reward updated",
		"reward.disabled":              "reward disabled",
		"reward.not_found":             "reward not found",
		"voucher.listed":               "vouchers listed",
		"voucher.redeemed":             "voucher redeemed",
		"voucher.invalid":              "voucher invalid",
		"voucher.not_found":            "voucher not found",
		"points.insufficient":          "insufficient points",
		"points.listed":                "points history listed",
		"points.redeemed":              "points redeemed",
		"audit.listed":                 "audit logs listed",
		"discount.invalid_input":       "invalid discount percent",
	},
}

// T 按语言解析消息 key，未命中时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if catalog, ok := messages[normalizeLocale(locale)]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 解析带参数的消息 key
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale 从请求中解析语言
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return normalizeLocale(lang)
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if idx := strings.Index(tag, "-"); idx > 0 {
			tag = tag[:idx]
		}
		if supportedLocales[tag] {
			return tag
		}
	}
	return DefaultLocale
}

func normalizeLocale(locale string) string {
	normalized := strings.ToLower(strings.TrimSpace(locale))
	if supportedLocales[normalized] {
		return normalized
	}
	return DefaultLocale
}
