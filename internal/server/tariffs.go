package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
)

func (s *Server) CreateTariff(c *gin.Context) {
	var req tariffdomain.CreateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.tariffSvc.CreateTariff(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTariff(c *gin.Context) {
	var req tariffdomain.UpdateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.tariffSvc.UpdateTariff(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTariff(c *gin.Context) {
	if err := s.tariffSvc.DeleteTariff(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GetTariff(c *gin.Context) {
	resp, err := s.tariffSvc.GetTariff(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTariffComplete(c *gin.Context) {
	resp, err := s.tariffSvc.GetTariffComplete(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTariffs(c *gin.Context) {
	var req tariffdomain.ListTariffsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.tariffSvc.ListTariffs(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateSeasonalRate(c *gin.Context) {
	var req tariffdomain.SeasonalRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.TariffID = strings.TrimSpace(c.Param("id"))

	resp, err := s.tariffSvc.CreateSeasonalRate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateSeasonalRate(c *gin.Context) {
	var req tariffdomain.SeasonalRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.TariffID = strings.TrimSpace(c.Param("id"))

	resp, err := s.tariffSvc.UpdateSeasonalRate(c.Request.Context(), strings.TrimSpace(c.Param("rateID")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSeasonalRates(c *gin.Context) {
	resp, err := s.tariffSvc.ListSeasonalRates(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateBulkDiscount(c *gin.Context) {
	var req tariffdomain.BulkDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.TariffID = strings.TrimSpace(c.Param("id"))

	resp, err := s.tariffSvc.CreateBulkDiscount(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateBulkDiscount(c *gin.Context) {
	var req tariffdomain.BulkDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.TariffID = strings.TrimSpace(c.Param("id"))

	resp, err := s.tariffSvc.UpdateBulkDiscount(c.Request.Context(), strings.TrimSpace(c.Param("tierID")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBulkDiscounts(c *gin.Context) {
	resp, err := s.tariffSvc.ListBulkDiscounts(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateDynamicRule(c *gin.Context) {
	var req tariffdomain.DynamicRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.TariffID = strings.TrimSpace(c.Param("id"))

	resp, err := s.tariffSvc.CreateDynamicRule(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateDynamicRule(c *gin.Context) {
	var req tariffdomain.DynamicRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.TariffID = strings.TrimSpace(c.Param("id"))

	resp, err := s.tariffSvc.UpdateDynamicRule(c.Request.Context(), strings.TrimSpace(c.Param("ruleID")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDynamicRules(c *gin.Context) {
	resp, err := s.tariffSvc.ListDynamicRules(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
