package client

// Backend API paths. Detail endpoints append "/:id".
const (
	PathLogin     = "/auth/login"
	PathProfile   = "/users/profile"
	PathAddresses = "/users/addresses"

	PathProducts         = "/products"
	PathProductsFeatured = "/products/featured"
	PathProductsSearch   = "/products/search"

	PathCategories     = "/categories"
	PathCategoriesTree = "/categories/tree"

	PathOrders     = "/orders"
	PathOrderStats = "/orders/stats"

	PathUpload = "/files/upload"
)
