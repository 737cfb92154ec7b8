package routes

import (
	"labtrack/app"
	"labtrack/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	studentCtl := controllers.NewStudentController(a.Repo, a.Reports)
	staffCtl := controllers.NewStaffController(a.Repo, a.Reports)
	invCtl := controllers.NewInventoryController(a.Repo, a.Reports)
	itemCtl := controllers.NewItemController(a.Repo, a.Reports)
	issueCtl := controllers.NewIssueController(a.Repo, a.Reports)
	reportCtl := controllers.NewReportController(a.Repo, a.Reports, a.Config.OverdueThreshold())
	importCtl := controllers.NewImportController(a.Repo, a.Reports)

	// ------------------------------
	// Dashboard
	// ------------------------------
	dash := r.Group("/api/dashboard")
	{
		dash.GET("/summary", reportCtl.Summary)
		dash.GET("/breakdown", reportCtl.Breakdown)
		dash.GET("/recent", reportCtl.Recent)
		dash.GET("/overdue", reportCtl.Overdue)
	}

	// ------------------------------
	// Issue / Returns
	// ------------------------------
	r.POST("/api/issue", issueCtl.Issue)
	txns := r.Group("/api/transactions")
	{
		txns.GET("", issueCtl.ListTransactions)
		txns.POST("/:id/items/:itemID/return", issueCtl.Resolve)
	}

	// ------------------------------
	// Catalog (inventory types + items)
	// ------------------------------
	inv := r.Group("/api/inventory")
	{
		inv.GET("", invCtl.List)
		inv.POST("", invCtl.Create)
		inv.POST("/recount", invCtl.Recount)
		inv.DELETE("/:id", invCtl.Delete)
	}
	items := r.Group("/api/items")
	{
		items.GET("", itemCtl.List) // ?status=&inventoryId=&serial=&name=
		items.POST("", itemCtl.Create)
		items.DELETE("/:id", itemCtl.Delete)
		items.GET("/:id/holder", itemCtl.Holder)
	}
	r.POST("/api/import", importCtl.Import)

	// ------------------------------
	// Students / Staff
	// ------------------------------
	students := r.Group("/api/students")
	{
		students.GET("", studentCtl.List) // ?q=
		students.POST("", studentCtl.Create)
		students.DELETE("/:id", studentCtl.Delete)
		students.GET("/:id/loans", studentCtl.Loans)
	}
	staff := r.Group("/api/staff")
	{
		staff.GET("", staffCtl.List)
		staff.POST("", staffCtl.Create)
		staff.DELETE("/:id", staffCtl.Delete)
	}
}
