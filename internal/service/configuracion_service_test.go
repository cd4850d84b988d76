package service

import (
	"context"
	"testing"

	"facturapos/internal/dto"
	"facturapos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingConfigRepo struct {
	cfg        *model.Configuracion
	savedCols  []string
	savedCfg   *model.Configuracion
	contadorTx string
}

func (r *recordingConfigRepo) Find(ctx context.Context, userID string) (*model.Configuracion, error) {
	if r.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.cfg, nil
}
func (r *recordingConfigRepo) FindForUpdateTx(tx *gorm.DB, userID string) (*model.Configuracion, error) {
	return r.Find(context.Background(), userID)
}
func (r *recordingConfigRepo) Upsert(ctx context.Context, cfg *model.Configuracion, cols []string) error {
	r.savedCfg = cfg
	r.savedCols = cols
	return nil
}
func (r *recordingConfigRepo) UpdateContadorTx(tx *gorm.DB, userID string, contador string) error {
	r.contadorTx = contador
	return nil
}

func strPtr(s string) *string { return &s }

func TestConfiguracionObtener_DefaultsParaTenantNuevo(t *testing.T) {
	svc := NewConfiguracionService(&recordingConfigRepo{})

	resp, err := svc.Obtener(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "FAC", resp.PrefijoFactura)
	assert.Equal(t, "19", resp.PorcentajeIVA)
	assert.Equal(t, "0", resp.NumeroFacturaActual)
	assert.Equal(t, "smtp.gmail.com", resp.SMTPServer)
	assert.Equal(t, 587, resp.SMTPPort)
}

func TestConfiguracionGuardar_MergeaSoloCamposEnviados(t *testing.T) {
	repo := &recordingConfigRepo{cfg: &model.Configuracion{
		UserID:              "user-1",
		EmpresaNombre:       "Tienda Vieja",
		EmpresaNIT:          "900123456",
		PrefijoFactura:      "FAC",
		PorcentajeIVA:       "19",
		NumeroFacturaActual: "41",
	}}
	svc := NewConfiguracionService(repo)

	resp, err := svc.Guardar(context.Background(), "user-1", dto.GuardarConfiguracionRequest{
		EmpresaNombre:  strPtr("Tienda Nueva"),
		PrefijoFactura: strPtr("FV"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Tienda Nueva", resp.EmpresaNombre)
	assert.Equal(t, "FV", resp.PrefijoFactura)
	// untouched fields survive the merge
	assert.Equal(t, "900123456", resp.EmpresaNIT)
	assert.Equal(t, "19", resp.PorcentajeIVA)

	assert.Contains(t, repo.savedCols, "empresa_nombre")
	assert.Contains(t, repo.savedCols, "prefijo_factura")
	assert.NotContains(t, repo.savedCols, "empresa_nit")
	// the issuance path owns the counter
	assert.NotContains(t, repo.savedCols, "numero_factura_actual")
}

func TestConfiguracionGuardar_NuncaExponePassword(t *testing.T) {
	repo := &recordingConfigRepo{}
	svc := NewConfiguracionService(repo)

	resp, err := svc.Guardar(context.Background(), "user-1", dto.GuardarConfiguracionRequest{
		EmailPassword: strPtr("app-password"),
	})
	require.NoError(t, err)

	assert.Equal(t, "app-password", repo.savedCfg.EmailPassword)
	assert.Contains(t, repo.savedCols, "email_password")
	// ConfiguracionResponse has no password field; nothing else to assert on
	// the response beyond it existing.
	require.NotNil(t, resp)
}
