package i18n

// Message catalogs. Keys are looked up by dotted path, e.g. "cart.outOfStock".
var locales = map[string]map[string]any{
	"zh": {
		"common": map[string]any{
			"done":          "完成",
			"welcome":       "欢迎回来，",
			"loading":       "加载中...",
			"networkError":  "网络错误，请检查网络连接",
			"timeout":       "请求超时，请稍后重试",
			"unauthorized":  "登录已过期，请重新登录",
			"forbidden":     "没有访问权限",
			"notFound":      "请求的资源不存在",
			"serverError":   "服务器错误，请稍后重试",
			"requestFailed": "请求失败",
		},
		"cart": map[string]any{
			"added":        "已加入购物车",
			"outOfStock":   "该商品已售罄",
			"exceedsStock": "库存不足，最多还能购买{{count}}件",
			"empty":        "购物车是空的",
			"total":        "合计",
			"deliveryFee":  "运费",
		},
		"order": map[string]any{
			"placed":       "下单成功",
			"placedLocal":  "网络异常，订单已保存到本地",
			"cancelled":    "订单已取消",
			"received":     "已确认收货",
			"status": map[string]any{
				"pending":   "待付款",
				"paid":      "待发货",
				"shipped":   "已发货",
				"delivered": "已完成",
				"cancelled": "已取消",
			},
		},
		"catalog": map[string]any{
			"offline": "当前为离线数据",
			"stock":   "库存",
		},
	},
	"en": {
		"common": map[string]any{
			"done":          "Done",
			"welcome":       "Welcome back,",
			"loading":       "Loading...",
			"networkError":  "Network error, please check your connection",
			"timeout":       "Request timed out, please try again",
			"unauthorized":  "Session expired, please log in again",
			"forbidden":     "You do not have permission",
			"notFound":      "The requested resource does not exist",
			"serverError":   "Server error, please try again later",
			"requestFailed": "Request failed",
		},
		"cart": map[string]any{
			"added":        "Added to cart",
			"outOfStock":   "This item is out of stock",
			"exceedsStock": "Only {{count}} more in stock",
			"empty":        "Your cart is empty",
			"total":        "Total",
			"deliveryFee":  "delivery",
		},
		"order": map[string]any{
			"placed":       "Order placed successfully",
			"placedLocal":  "Network unavailable, order saved locally",
			"cancelled":    "Order cancelled",
			"received":     "Receipt confirmed",
			"status": map[string]any{
				"pending":   "Pending Payment",
				"paid":      "Paid",
				"shipped":   "Shipped",
				"delivered": "Delivered",
				"cancelled": "Cancelled",
			},
		},
		"catalog": map[string]any{
			"offline": "Showing offline data",
			"stock":   "stock",
		},
	},
}
