package api

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"gymdesk/routine-admin/internal/notify"
	"gymdesk/routine-admin/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// ExpiredLinkText is the only thing shown for an unusable timer link.
	ExpiredLinkText = "El enlace ha expirado o es inválido."
	// LoadFailedText is shown when the store could not be reached.
	LoadFailedText = "No se pudo cargar la rutina. Intentá de nuevo más tarde."

	trainingTemplateName = "training_timer"
)

// TrainingHandler serves the unauthenticated timer page opened from a
// routine message.
type TrainingHandler struct {
	trainingService service.TrainingService
}

func NewTrainingHandler(trainingService service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

type trainingPage struct {
	Valid       bool
	Message     string
	View        *service.TrainingView
	RoutineHTML template.HTML
}

// TimerPage renders GET /training-timer/:routineId/:day?token=...
// Only a valid link gets routine data on the page.
func (h *TrainingHandler) TimerPage(c *gin.Context) {
	view, err := h.trainingService.View(c.Request.Context(), c.Query("token"), c.Param("routineId"), c.Param("day"))
	if err != nil {
		if errors.Is(err, service.ErrLinkInvalid) {
			c.HTML(http.StatusForbidden, trainingTemplateName, trainingPage{Message: ExpiredLinkText})
			return
		}
		log.Printf("ERROR: Failed to load training page for routine %s: %v", c.Param("routineId"), err)
		c.HTML(http.StatusInternalServerError, trainingTemplateName, trainingPage{Message: LoadFailedText})
		return
	}

	routineHTML, err := notify.RenderHTML(view.Text)
	if err != nil {
		log.Printf("ERROR: Failed to render routine %s: %v", c.Param("routineId"), err)
		c.HTML(http.StatusInternalServerError, trainingTemplateName, trainingPage{Message: LoadFailedText})
		return
	}
	c.HTML(http.StatusOK, trainingTemplateName, trainingPage{Valid: true, View: view, RoutineHTML: routineHTML})
}

// PublicTraining is the JSON form of TimerPage for app clients.
func (h *TrainingHandler) PublicTraining(c *gin.Context) {
	view, err := h.trainingService.View(c.Request.Context(), c.Query("token"), c.Param("routineId"), c.Param("day"))
	if err != nil {
		if errors.Is(err, service.ErrLinkInvalid) {
			abortWithError(c, http.StatusForbidden, ExpiredLinkText)
			return
		}
		log.Printf("ERROR: Failed to load public training for routine %s: %v", c.Param("routineId"), err)
		abortWithError(c, http.StatusInternalServerError, LoadFailedText)
		return
	}
	c.JSON(http.StatusOK, view)
}

// trainingTemplate is installed on the router by SetupRoutes. The countdown
// mirrors internal/timer: presets arm it, it pauses and resumes, and beeps
// once at zero, after which any preset starts it again.
var trainingTemplate = template.Must(template.New(trainingTemplateName).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Temporizador de entrenamiento</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 40rem; margin: 0 auto; padding: 1rem; }
#clock { font-size: 4rem; text-align: center; font-variant-numeric: tabular-nums; }
.presets button, .controls button { font-size: 1.1rem; margin: .25rem; padding: .5rem 1rem; }
.expired { font-size: 1.25rem; text-align: center; margin-top: 3rem; }
</style>
</head>
<body>
{{- if .Valid}}
<h1>{{with .View.StudentName}}Hola {{.}}{{else}}Tu rutina{{end}}</h1>
<h2>{{.View.Day}}</h2>
<section id="routine">{{.RoutineHTML}}</section>
<section id="timer">
<div id="clock">0:00</div>
<div class="presets">{{range .View.Presets}}<button type="button" data-seconds="{{.Seconds}}">{{.Label}}</button>{{end}}</div>
<div class="controls"><button type="button" id="pause">Pausar</button><button type="button" id="reset">Reiniciar</button></div>
</section>
<script>
(function () {
  var clock = document.getElementById("clock");
  var pause = document.getElementById("pause");
  var state = "idle", remaining = 0, interval = null;
  function render() {
    var m = Math.floor(remaining / 60), s = remaining % 60;
    clock.textContent = m + ":" + (s < 10 ? "0" : "") + s;
    pause.textContent = state === "paused" ? "Reanudar" : "Pausar";
  }
  function stop() { if (interval) { clearInterval(interval); interval = null; } }
  function alarm() {
    try {
      var ctx = new (window.AudioContext || window.webkitAudioContext)();
      var osc = ctx.createOscillator();
      osc.connect(ctx.destination);
      osc.start();
      osc.stop(ctx.currentTime + 1);
    } catch (e) {}
  }
  function tick() {
    if (state !== "running") { return; }
    remaining--;
    if (remaining <= 0) { remaining = 0; state = "expired"; stop(); alarm(); }
    render();
  }
  document.querySelectorAll(".presets button").forEach(function (b) {
    b.addEventListener("click", function () {
      if (state === "running" || state === "paused") { return; }
      remaining = parseInt(b.dataset.seconds, 10);
      state = "running";
      stop();
      interval = setInterval(tick, 1000);
      render();
    });
  });
  pause.addEventListener("click", function () {
    if (state === "running") { state = "paused"; } else if (state === "paused") { state = "running"; }
    render();
  });
  document.getElementById("reset").addEventListener("click", function () {
    stop(); state = "idle"; remaining = 0; render();
  });
  window.addEventListener("pagehide", stop);
  render();
})();
</script>
{{- else}}
<p class="expired">{{.Message}}</p>
{{- end}}
</body>
</html>
`))
