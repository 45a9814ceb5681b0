package utils

import "github.com/gin-gonic/gin"

func JSON200(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func JSON201(c *gin.Context, data interface{}) {
	c.JSON(201, data)
}

func JSON400(c *gin.Context, message string) {
	c.JSON(400, gin.H{"message": message})
}

func JSON400Fields(c *gin.Context, message string, fields map[string]string) {
	c.JSON(400, gin.H{"message": message, "errors": fields})
}

func JSON401(c *gin.Context, message string) {
	c.JSON(401, gin.H{"message": message})
}

func JSON403(c *gin.Context, message string) {
	c.JSON(403, gin.H{"message": message})
}

func JSON404(c *gin.Context, message string) {
	c.JSON(404, gin.H{"message": message})
}

func JSON500(c *gin.Context, message string) {
	c.JSON(500, gin.H{"message": message})
}
