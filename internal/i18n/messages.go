package i18n

var messages = map[string]map[string]string{
	"en": {
		"returnedAllValues":            "Returned all values",
		"returnedSingleValue":          "Returned single value",
		"createdSuccessful":            "Created successfully",
		"updatedSuccessful":            "Updated successfully",
		"deletedSuccessful":            "Deleted successfully",
		"noRecordFound":                "No record found",
		"noDataProvided":               "No data provided",
		"productNotFound":              "Product(s) not found: {{ids}}",
		"productNotInStock":            "Product(s) not in stock: {{ids}}",
		"customerNotFound":             "Customer not found",
		"customerNotEnoughBalance":     "Customer does not have enough balance",
		"noDifferenceFound":            "No difference found between the invoice lines",
		"taxRateOrThresholdNotFound":   "Tax rate or threshold not configured",
		"invalidCredentials":           "Invalid email or password",
		"userAlreadyExists":            "A user with this email already exists",
		"persistenceError":             "A database error occurred",
		"duplicateInvoiceNumber":       "Invoice number collision, please retry",
		"validationError":              "Invalid request: {{reason}}",
		"unauthorized":                 "Authorization required",
		"forbidden":                    "Insufficient permissions",
	},
	"ar": {
		"returnedAllValues":            "تم إرجاع جميع القيم",
		"returnedSingleValue":          "تم إرجاع قيمة واحدة",
		"createdSuccessful":            "تم الإنشاء بنجاح",
		"updatedSuccessful":            "تم التحديث بنجاح",
		"deletedSuccessful":            "تم الحذف بنجاح",
		"noRecordFound":                "لم يتم العثور على سجل",
		"noDataProvided":               "لم يتم تقديم أي بيانات",
		"productNotFound":              "المنتجات غير موجودة: {{ids}}",
		"productNotInStock":            "المنتجات غير متوفرة في المخزون: {{ids}}",
		"customerNotFound":             "العميل غير موجود",
		"customerNotEnoughBalance":     "رصيد العميل غير كافٍ",
		"noDifferenceFound":            "لا يوجد اختلاف بين بنود الفاتورة",
		"taxRateOrThresholdNotFound":   "نسبة الضريبة أو الحد الأدنى غير مهيأة",
		"invalidCredentials":           "البريد الإلكتروني أو كلمة المرور غير صحيحة",
		"userAlreadyExists":            "يوجد مستخدم بهذا البريد الإلكتروني",
		"persistenceError":             "حدث خطأ في قاعدة البيانات",
		"duplicateInvoiceNumber":       "تعارض في رقم الفاتورة، يرجى المحاولة مرة أخرى",
		"validationError":              "طلب غير صالح: {{reason}}",
		"unauthorized":                 "التفويض مطلوب",
		"forbidden":                    "صلاحيات غير كافية",
	},
}
